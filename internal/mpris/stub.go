//go:build !linux

package mpris

import (
	"errors"
	"fmt"
)

// Adapter has no counterpart outside Linux.
type Adapter struct{}

// New fails outside Linux, where there is no session bus to register on.
func New(Controls) (*Adapter, error) {
	return nil, fmt.Errorf("mpris: %w", errors.ErrUnsupported)
}

// Close does nothing.
func (*Adapter) Close() error { return nil }
