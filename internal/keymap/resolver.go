package keymap

import "slices"

// Resolver answers which action a key triggers within a set of contexts.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings. A key claimed by several bindings keeps the
// action of the earliest one.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action, len(bindings)*2),
		keys:    make(map[Action][]string, len(bindings)),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if _, ok := r.actions[key]; !ok {
				r.actions[key] = b.Action
			}
			if !slices.Contains(r.keys[b.Action], key) {
				r.keys[b.Action] = append(r.keys[b.Action], key)
			}
		}
	}
	return r
}

// ForContexts is NewResolver over the bindings of contexts, in order.
func ForContexts(contexts ...string) *Resolver {
	var bindings []Binding
	for _, c := range contexts {
		bindings = append(bindings, ByContext(c)...)
	}
	return NewResolver(bindings)
}

// Resolve returns the action bound to key, or "" when none is.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor lists the keys of action in first-seen order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}
