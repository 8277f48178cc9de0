//go:build !linux

package notify

import (
	"errors"
	"fmt"
)

// New fails outside Linux: notifications go through the freedesktop D-Bus
// service.
func New() (Notifier, error) {
	return nil, fmt.Errorf("desktop notifications: %w", errors.ErrUnsupported)
}
