package helpbindings

// Source identifies the help popup in action.Msg.
const Source = "helpbindings"

// Close asks the app to hide the help popup.
type Close struct{}

func (Close) ActionType() string { return "help.close" }
