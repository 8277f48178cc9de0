package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/keymap"
	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui/helpbindings"
	"github.com/llehouerou/onair/internal/ui/kittyimg"
	"github.com/llehouerou/onair/internal/ui/playerbar"
	"github.com/llehouerou/onair/internal/ui/urlprompt"
)

// Options configures the screen.
type Options struct {
	SeekStep     time.Duration
	SeekStepLong time.Duration
	VolumeStep   float64
	Mode         playerbar.DisplayMode
	// Covers enables cover art through the kitty graphics protocol.
	Covers bool
	// Stderr delivers captured C-library output; nil disables it.
	Stderr <-chan string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SeekStep:     5 * time.Second,
		SeekStepLong: 15 * time.Second,
		VolumeStep:   0.05,
		Mode:         playerbar.ModeExpanded,
	}
}

// Model is the root application model.
type Model struct {
	Service Service
	Keys    *keymap.Resolver
	State   playback.UiState
	Mode    playerbar.DisplayMode

	Prompt     urlprompt.Model
	ShowPrompt bool
	Help       helpbindings.Model
	ShowHelp   bool

	// ErrorMsg is the last captured stderr line.
	ErrorMsg string
	errorSeq int

	sub     *playback.Subscription
	spinner spinner.Model
	stderr  <-chan string
	opts    Options

	cover         *kittyimg.Renderer // nil without graphics support
	coverTransmit string             // written once in front of the next frames
	coverSeq      int

	Width  int
	Height int
}

// New creates the model and subscribes to the service.
func New(svc Service, opts Options) Model {
	def := DefaultOptions()
	if opts.SeekStep <= 0 {
		opts.SeekStep = def.SeekStep
	}
	if opts.SeekStepLong <= 0 {
		opts.SeekStepLong = def.SeekStepLong
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = def.VolumeStep
	}

	// The player bar styles the frame.
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	m := Model{
		Service: svc,
		Keys:    keymap.ForContexts("global", "playback"),
		State:   svc.Snapshot(),
		Mode:    opts.Mode,
		Prompt:  urlprompt.New(),
		Help:    helpbindings.New(),
		sub:     svc.Subscribe(),
		spinner: sp,
		stderr:  opts.Stderr,
		opts:    opts,
	}
	if opts.Covers {
		m.cover = kittyimg.NewRenderer(playerbar.ArtCols, playerbar.ArtRows)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchState(), WatchStderr(m.stderr)}
	if m.State.Buffering {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Close detaches from the service and returns the sequence that frees the
// cover, to be written after the program exits.
func (m Model) Close() string {
	if m.sub != nil {
		m.Service.Unsubscribe(m.sub)
	}
	if m.cover != nil {
		return m.cover.Clear()
	}
	return ""
}
