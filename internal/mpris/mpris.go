//go:build linux

// Package mpris publishes the player on the D-Bus session bus as
// org.mpris.MediaPlayer2.onair so desktop media keys and widgets can drive
// it.
package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/errmsg"
)

const busName = "onair"

// Adapter owns the MPRIS server registration.
type Adapter struct {
	srv *server.Server
}

// New registers ctl on the session bus. Listening runs in the background;
// a bus failure after this point is only logged.
func New(ctl Controls) (*Adapter, error) {
	srv := server.NewServer(busName, &rootAdapter{}, &playerAdapter{ctl: ctl})
	go func() {
		if err := srv.Listen(); err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMPRISStart, err))
		}
	}()
	return &Adapter{srv: srv}, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.srv.Stop()
}
