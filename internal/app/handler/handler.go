// Package handler chains key handlers: the first one that claims a key
// decides the command.
package handler

import tea "github.com/charmbracelet/bubbletea"

// Result is what a handler did with a key.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled passes the key to the next handler.
var NotHandled = Result{}

// HandledNoCmd claims the key without a command.
var HandledNoCmd = Result{Handled: true}

// Handled claims the key and returns cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Handler inspects a key string as reported by tea.KeyMsg.String.
type Handler func(key string) Result

// Chain offers key to handlers in order until one handles it.
func Chain(key string, handlers ...Handler) Result {
	for _, h := range handlers {
		if r := h(key); r.Handled {
			return r
		}
	}
	return NotHandled
}
