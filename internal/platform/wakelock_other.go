//go:build !linux && !darwin

package platform

import "github.com/sadopc/intervals/internal/presence"

func newWakeLock(_, _ string) presence.Port {
	return unsupportedWakeLock{}
}
