// Package remote serves a small HTTP API that drives the playback service,
// for scripts and window-manager key bindings.
package remote

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/source"
)

// Controls is the part of playback.Service the API drives.
type Controls interface {
	Snapshot() playback.UiState
	Send(e playback.ControllerEvent)
	Activate()
	Position() time.Duration
}

// API handles HTTP control endpoints.
type API struct {
	ctl Controls
}

// NewAPI creates a new API handler.
func NewAPI(ctl Controls) *API {
	return &API{ctl: ctl}
}

// PrepareRequest is the request body for the prepare endpoint.
type PrepareRequest struct {
	URL      string `json:"url" binding:"required"`
	Autoplay *bool  `json:"autoplay"` // default: true
}

// SeekRequest is the request body for the seek endpoint.
type SeekRequest struct {
	PositionMS *int64 `json:"position_ms" binding:"required,min=0"`
}

// VolumeRequest is the request body for the volume endpoint.
type VolumeRequest struct {
	Level *float64 `json:"level" binding:"required,min=0,max=1"`
}

// StateResponse is the JSON form of a UiState snapshot.
type StateResponse struct {
	Status        string  `json:"status"`
	Idle          bool    `json:"idle"`
	Buffering     bool    `json:"buffering"`
	Playing       bool    `json:"playing"`
	URL           string  `json:"url"`
	Title         string  `json:"title,omitempty"`
	Artist        string  `json:"artist,omitempty"`
	Album         string  `json:"album,omitempty"`
	Played        string  `json:"played"`
	Total         string  `json:"total"`
	PositionMS    int64   `json:"position_ms"`
	DurationMS    int     `json:"duration_ms"`
	Volume        float64 `json:"volume"`
	Muted         bool    `json:"muted"`
	BufferedBytes int64   `json:"buffered_bytes"`
	TotalBytes    int64   `json:"total_bytes"`
	Error         string  `json:"error,omitempty"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse is returned once a command is queued.
type AcceptedResponse struct {
	Status string `json:"status"`
}

var accepted = AcceptedResponse{Status: "accepted"}

// Health reports that the server is up.
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// State returns the current snapshot. The position is read live from the
// engine, so it may be ahead of the last published progress.
func (a *API) State(c *gin.Context) {
	s := a.ctl.Snapshot()
	resp := StateResponse{
		Status:        strings.ToLower(s.Status().String()),
		Idle:          s.Idle,
		Buffering:     s.Buffering,
		Playing:       s.Playing,
		URL:           s.URL,
		Title:         s.Title,
		Artist:        s.Artist,
		Album:         s.Album,
		Played:        s.PlayedDuration,
		Total:         s.TotalDuration,
		PositionMS:    int64(s.CurrentProgress),
		DurationMS:    s.MaxProgress,
		Volume:        s.Volume,
		Muted:         s.Muted,
		BufferedBytes: s.BufferedBytes,
		TotalBytes:    s.TotalBytes,
		Error:         s.Error,
	}
	if !s.Idle {
		resp.PositionMS = a.ctl.Position().Milliseconds()
	}
	c.JSON(http.StatusOK, resp)
}

// Prepare loads a new stream.
func (a *API) Prepare(c *gin.Context) {
	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateURL(req.URL); err != nil {
		badRequest(c, err)
		return
	}

	autoplay := req.Autoplay == nil || *req.Autoplay
	a.ctl.Send(playback.Prepare{URL: req.URL, Autoplay: autoplay})
	c.JSON(http.StatusAccepted, accepted)
}

// PlayPause prepares the last stream when idle and toggles playback otherwise.
func (a *API) PlayPause(c *gin.Context) {
	a.ctl.Activate()
	c.JSON(http.StatusAccepted, accepted)
}

// Seek moves to an absolute position.
func (a *API) Seek(c *gin.Context) {
	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a.ctl.Send(playback.SeekTo{Position: time.Duration(*req.PositionMS) * time.Millisecond})
	c.JSON(http.StatusAccepted, accepted)
}

// Volume sets the output level.
func (a *API) Volume(c *gin.Context) {
	var req VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a.ctl.Send(playback.SetVolume{Level: *req.Level})
	c.JSON(http.StatusAccepted, accepted)
}

// Mute toggles mute.
func (a *API) Mute(c *gin.Context) {
	a.ctl.Send(playback.ToggleMute{})
	c.JSON(http.StatusAccepted, accepted)
}

// Stop releases the stream.
func (a *API) Stop(c *gin.Context) {
	a.ctl.Send(playback.Stop{})
	c.JSON(http.StatusAccepted, accepted)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return errors.New("invalid url: missing host")
		}
		return nil
	}
	if source.IsLocal(raw) {
		return nil
	}
	return fmt.Errorf("%w: %s", source.ErrUnsupportedScheme, u.Scheme)
}
