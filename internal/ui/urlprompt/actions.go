package urlprompt

// Source names this component in action.Msg.
const Source = "urlprompt"

// Result is emitted when the prompt closes.
type Result struct {
	URL      string
	Canceled bool // True if user pressed Escape
}

// ActionType implements action.Action.
func (a Result) ActionType() string { return "urlprompt.result" }
