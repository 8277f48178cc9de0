//go:build linux

package notify

import (
	"os"
	"testing"
)

func TestNewDBusNotifier(t *testing.T) {
	// Skip if no D-Bus session (CI environment)
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	notifier, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if notifier == nil {
		t.Fatal("New() returned nil notifier")
	}
}

func TestNotifyReplacesExisting(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	notifier, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := notifier.(*dbusNotifier); !ok {
		t.Skip("session bus not reachable")
	}

	id1, err := notifier.Notify(Notification{
		Title:    "onair test",
		Body:     "Buffering...",
		Timeout:  2000,
		Resident: true,
		Actions:  []Action{{Key: "playpause", Label: "Play"}},
	})
	if err != nil {
		t.Skipf("no notification server: %v", err)
	}

	id2, err := notifier.Notify(Notification{
		Title:      "onair test",
		Body:       "Playing",
		Timeout:    1000,
		ReplacesID: id1,
		Actions:    []Action{{Key: "playpause", Label: "Pause"}},
	})
	if err != nil {
		t.Fatalf("second Notify() error: %v", err)
	}

	// IDs should match when replacing
	if id2 != id1 {
		t.Errorf("replacing notification got id=%d, want id=%d", id2, id1)
	}

	if err := notifier.Close(id2); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestStubNotifier(t *testing.T) {
	var n Notifier = &stubNotifier{}

	id, err := n.Notify(Notification{Title: "x"})
	if id != 0 || err != nil {
		t.Errorf("Notify() = %d, %v; want 0, nil", id, err)
	}
	if n.Actions() != nil {
		t.Error("stub should report no actions")
	}
}
