package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 2 * time.Second

// Server is a running remote control API.
type Server struct {
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
}

// Start listens on addr and serves the API until ctx is done. Bind errors
// are returned before Start returns.
func Start(ctx context.Context, addr string, ctl Controls) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           SetupRouter(NewAPI(ctl)),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:   ln,
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		log.Info().Str("addr", ln.Addr().String()).Msg("remote control listening")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("remote control server")
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Done is closed once the server has stopped.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("remote control shutdown")
	}
}
