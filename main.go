package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/app"
	"github.com/llehouerou/onair/internal/config"
	"github.com/llehouerou/onair/internal/errmsg"
	"github.com/llehouerou/onair/internal/logger"
	"github.com/llehouerou/onair/internal/mpris"
	"github.com/llehouerou/onair/internal/notify"
	"github.com/llehouerou/onair/internal/nowplaying"
	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/player"
	"github.com/llehouerou/onair/internal/remote"
	"github.com/llehouerou/onair/internal/state"
	"github.com/llehouerou/onair/internal/stderr"
	"github.com/llehouerou/onair/internal/tags"
	"github.com/llehouerou/onair/internal/ui/kittyimg"
	"github.com/llehouerou/onair/internal/ui/playerbar"
)

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "onair: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "onair: %v\n", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	opts.apply(cfg)

	logFile, err := logger.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Capture stderr before the audio device is opened.
	if err := stderr.Start(); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	var sessions playback.SessionStore
	volume, _ := cfg.InitialVolume()
	var muted bool
	stateMgr, err := state.Open()
	if err != nil {
		log.Warn().Err(err).Msg("state store unavailable, resume disabled")
	} else {
		defer stateMgr.Close()
		sessions = stateMgr
		if saved, err := stateMgr.GetVolume(); err == nil && saved != nil {
			volume, muted = saved.Volume, saved.Muted
		}
	}

	covers, err := tags.NewCoverCache(cfg.CoverCache)
	if err != nil {
		log.Warn().Err(err).Msg("cover cache unavailable")
		covers = nil
	}

	engine := player.New(player.Options{
		PollInterval: cfg.PollInterval,
		Volume:       volume,
		Muted:        muted,
		Covers:       covers,
	})
	svc := playback.NewService(engine, playback.Options{
		URL:      cfg.StreamURL,
		Sessions: sessions,
		Resume:   cfg.ResumeEnabled(),
	})

	// ctrl+c is a key press for the TUI; only SIGTERM cancels from outside.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	svcDone := make(chan error, 1)
	go func() { svcDone <- svc.Run(ctx) }()

	var wg sync.WaitGroup
	startSurfaces(ctx, cfg, svc, &wg)

	var srv *remote.Server
	if cfg.HasRemote() {
		srv, err = remote.Start(ctx, cfg.Remote.Listen, svc)
		if err != nil {
			log.Error().Err(err).Msg(errmsg.FormatWith(errmsg.OpRemoteStart, cfg.Remote.Listen, err))
			cancel()
			<-svcDone
			wg.Wait()
			return err
		}
	}

	svc.Send(playback.Prepare{URL: cfg.StreamURL, Autoplay: cfg.AutoplayEnabled()})

	model := app.New(svc, app.Options{
		SeekStep:     cfg.SeekStep,
		SeekStepLong: cfg.SeekStepLong,
		Mode:         playerbar.ModeExpanded,
		Covers:       covers != nil && kittyimg.IsSupported(),
		Stderr:       stderr.Messages,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, runErr := p.Run()
	if m, ok := final.(app.Model); ok {
		if seq := m.Close(); seq != "" {
			_, _ = io.WriteString(os.Stdout, seq)
		}
	}

	cancel()
	if err := <-svcDone; err != nil {
		log.Error().Err(err).Msg("playback service")
	}
	wg.Wait()
	if srv != nil {
		<-srv.Done()
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", runErr)
	}
	return nil
}

// startSurfaces starts the desktop notification and the MPRIS session when
// enabled. Failures are logged; the player works without them.
func startSurfaces(ctx context.Context, cfg *config.Config, svc *playback.Service, wg *sync.WaitGroup) {
	if cfg.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpNotify, err))
		} else {
			np := nowplaying.New(n, svc, nowplaying.Options{
				Timeout: time.Duration(cfg.Notifications.TimeoutMS) * time.Millisecond,
			})
			wg.Go(func() {
				if err := np.Run(ctx); err != nil {
					log.Warn().Err(err).Msg("now playing notification")
				}
			})
		}
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(svc)
		if err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMPRISStart, err))
			return
		}
		wg.Go(func() {
			<-ctx.Done()
			if err := adapter.Close(); err != nil {
				log.Debug().Err(err).Msg("mpris close")
			}
		})
	}
}
