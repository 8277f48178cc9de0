package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/llehouerou/onair/internal/config"
	"github.com/llehouerou/onair/internal/ui/urlprompt"
)

// cliOptions holds the command line. Zero values leave the config as is.
type cliOptions struct {
	ConfigPath string
	NoAutoplay bool
	Remote     string
	Debug      bool
	URL        string
}

// parseArgs parses args (without the program name). flag.ErrHelp is
// returned when usage was requested.
func parseArgs(args []string, output io.Writer) (cliOptions, error) {
	var o cliOptions

	fs := flag.NewFlagSet("onair", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.ConfigPath, "config", "", "read this config file after the default locations")
	fs.BoolVar(&o.NoAutoplay, "no-autoplay", false, "prepare the stream paused")
	fs.StringVar(&o.Remote, "remote", "", "serve the remote control API on `addr` (e.g. 127.0.0.1:7878)")
	fs.BoolVar(&o.Debug, "debug", false, "log at debug level")
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage:")
		fmt.Fprintln(output, "  onair [flags] [url]")
		fmt.Fprintln(output, "\nPlays url, or the configured stream_url when omitted.")
		fmt.Fprintln(output, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		u, err := urlprompt.Validate(fs.Arg(0))
		if err != nil {
			return cliOptions{}, fmt.Errorf("stream url %q: %w", fs.Arg(0), err)
		}
		o.URL = u
	default:
		return cliOptions{}, fmt.Errorf("expected at most one url, got %d arguments", fs.NArg())
	}
	return o, nil
}

// apply overrides cfg with the command line.
func (o cliOptions) apply(cfg *config.Config) {
	if o.URL != "" {
		cfg.StreamURL = o.URL
	}
	if o.NoAutoplay {
		autoplay := false
		cfg.Autoplay = &autoplay
	}
	if o.Remote != "" {
		cfg.Remote.Listen = o.Remote
	}
	if o.Debug {
		cfg.Log.Level = "debug"
	}
}
