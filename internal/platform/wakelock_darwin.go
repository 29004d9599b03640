package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/sadopc/intervals/internal/presence"
)

// caffeinateLock keeps the display awake with caffeinate(8) for as long as
// the child process lives.
type caffeinateLock struct {
	path string
}

type caffeinateProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (p *caffeinateProcess) Released() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func newWakeLock(_, _ string) presence.Port {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return unsupportedWakeLock{}
	}
	return &caffeinateLock{path: path}
}

func (l *caffeinateLock) Acquire(_ context.Context) (presence.Handle, error) {
	// -w ties the assertion to this process, so a crash cannot leak it.
	cmd := exec.Command(l.path, "-d", "-i", "-w", strconv.Itoa(os.Getpid()))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start caffeinate: %w", err)
	}
	p := &caffeinateProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (l *caffeinateLock) Release(ctx context.Context, h presence.Handle) error {
	p, ok := h.(*caffeinateProcess)
	if !ok {
		return fmt.Errorf("release caffeinate: unexpected handle %T", h)
	}
	if p.Released() {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
