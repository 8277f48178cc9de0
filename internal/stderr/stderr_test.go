//go:build !windows

package stderr

import (
	"fmt"
	"os"
	"testing"
	"time"
)

func TestCaptureForwardsLines(t *testing.T) {
	if err := Start(); err != nil {
		t.Skipf("stderr capture unavailable: %v", err)
	}

	fmt.Fprintln(os.Stderr, "  ALSA lib pcm.c:8526: underrun occurred  ")
	fmt.Fprintln(os.Stderr, "")

	select {
	case line := <-Messages:
		if line != "ALSA lib pcm.c:8526: underrun occurred" {
			t.Errorf("captured %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no line captured")
	}

	Stop()

	// Blank lines are skipped and Messages is closed after Stop.
	select {
	case line, ok := <-Messages:
		if ok {
			t.Errorf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Messages not closed after Stop")
	}
}
