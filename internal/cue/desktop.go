package cue

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// desktopCommand builds the OS command that shows a desktop notification.
func desktopCommand(title, message string) (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(message), escapeAppleScript(title))
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		path, err := exec.LookPath("notify-send")
		if err != nil {
			return "", nil, fmt.Errorf("notify-send: %w", err)
		}
		return path, []string{"--app-name=" + title, title, message}, nil
	}
	return "", nil, fmt.Errorf("desktop notifications unsupported on %s", runtime.GOOS)
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
