package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/sadopc/intervals/internal/presence"
)

const (
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverPath  = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverIface = "org.freedesktop.ScreenSaver"
)

// screenSaverLock inhibits the desktop screensaver over the session bus.
type screenSaverLock struct {
	appName string
	reason  string
}

type inhibitCookie struct {
	conn   *dbus.Conn
	cookie uint32
}

func (c *inhibitCookie) Released() bool {
	return !c.conn.Connected()
}

func newWakeLock(appName, reason string) presence.Port {
	return &screenSaverLock{appName: appName, reason: reason}
}

func (l *screenSaverLock) Acquire(ctx context.Context) (presence.Handle, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %v", presence.ErrUnsupported, err)
	}

	var cookie uint32
	obj := conn.Object(screenSaverDest, screenSaverPath)
	err = obj.CallWithContext(ctx, screenSaverIface+".Inhibit", 0, l.appName, l.reason).Store(&cookie)
	if err != nil {
		conn.Close()
		if dbusErrorName(err) == "org.freedesktop.DBus.Error.ServiceUnknown" {
			return nil, fmt.Errorf("%w: no screensaver service", presence.ErrUnsupported)
		}
		return nil, fmt.Errorf("inhibit screensaver: %w", err)
	}
	return &inhibitCookie{conn: conn, cookie: cookie}, nil
}

func (l *screenSaverLock) Release(ctx context.Context, h presence.Handle) error {
	c, ok := h.(*inhibitCookie)
	if !ok {
		return fmt.Errorf("release screensaver inhibit: unexpected handle %T", h)
	}
	defer c.conn.Close()
	if !c.conn.Connected() {
		return nil
	}
	obj := c.conn.Object(screenSaverDest, screenSaverPath)
	if err := obj.CallWithContext(ctx, screenSaverIface+".UnInhibit", 0, c.cookie).Err; err != nil {
		return fmt.Errorf("uninhibit screensaver: %w", err)
	}
	return nil
}

func dbusErrorName(err error) string {
	var val dbus.Error
	if errors.As(err, &val) {
		return val.Name
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) {
		return ptr.Name
	}
	return ""
}
