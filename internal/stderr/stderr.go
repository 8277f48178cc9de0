//go:build !windows

// Package stderr redirects file descriptor 2 into a pipe while the TUI runs.
// ALSA, reached through oto's cgo layer, prints underrun warnings there and
// they would otherwise be drawn over the player.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// Messages carries captured lines, trimmed, blank ones dropped. Lines are
// discarded when nobody keeps up. The channel closes after Stop.
var Messages = make(chan string, 100)

type redirect struct {
	mu    sync.Mutex
	saved int // duplicate of the terminal's fd 2
	w     *os.File
}

var active redirect

// Start points fd 2 at a pipe. It must run before the audio device opens.
// Calling it twice is harmless; after a failure fd 2 is left untouched.
func Start() error {
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.w != nil {
		return nil
	}

	fd := int(os.Stderr.Fd())
	saved, err := unix.Dup(fd)
	if err != nil {
		return err
	}
	r, w, err := os.Pipe()
	if err != nil {
		_ = unix.Close(saved)
		return err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		_ = unix.Close(saved)
		r.Close()
		w.Close()
		return err
	}

	active.saved, active.w = saved, w
	go drain(r)
	return nil
}

func drain(r *os.File) {
	defer close(Messages)
	defer r.Close()

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		log.Warn().Str("source", "stderr").Msg(line)
		select {
		case Messages <- line:
		default:
		}
	}
}

// Stop gives fd 2 back to the terminal. Closing our write end lets drain
// finish once any child-held copies are gone.
func Stop() {
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.w == nil {
		return
	}
	_ = unix.Dup2(active.saved, int(os.Stderr.Fd()))
	_ = unix.Close(active.saved)
	active.w.Close()
	active.w = nil
}
