// Package platform holds the operating-system specific pieces: the screen
// wake lock used by package presence.
package platform

import (
	"context"

	"github.com/sadopc/intervals/internal/presence"
)

// NewWakeLock returns the wake-lock port for this platform. appName and
// reason are shown by the desktop where it lists inhibitors.
func NewWakeLock(appName, reason string) presence.Port {
	return newWakeLock(appName, reason)
}

type unsupportedWakeLock struct{}

func (unsupportedWakeLock) Acquire(context.Context) (presence.Handle, error) {
	return nil, presence.ErrUnsupported
}

func (unsupportedWakeLock) Release(context.Context, presence.Handle) error {
	return nil
}
