// Package notify provides desktop notifications via D-Bus.
package notify

// Urgency is the freedesktop notification urgency byte.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// appName identifies onair to the notification server.
const appName = "onair"

// Action is a button shown on a notification.
type Action struct {
	Key   string // returned in ActionEvent.Key when invoked
	Label string
}

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string   // Summary text (required)
	Body       string   // Body text (optional, supports basic markup)
	Icon       string   // Path to image file or icon name (optional)
	Timeout    int32    // ms, -1 = server default, 0 = never expire
	ReplacesID uint32   // 0 = new notification, >0 = replace existing
	Urgency    Urgency  // Low, Normal, Critical
	Actions    []Action // Buttons, in display order
	Resident   bool     // Keep the notification after an action is invoked
}

// ActionEvent reports that the user invoked an action button.
type ActionEvent struct {
	ID  uint32
	Key string
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
	// Actions delivers invoked action buttons. It is nil when the notifier
	// cannot report them.
	Actions() <-chan ActionEvent
}

// flattenActions encodes actions as the alternating key/label list the
// freedesktop Notify call expects.
func flattenActions(actions []Action) []string {
	out := make([]string, 0, 2*len(actions))
	for _, a := range actions {
		out = append(out, a.Key, a.Label)
	}
	return out
}
