// Package clipboard copies text to the system clipboard through the
// platform's native utility.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Copy places text on the system clipboard.
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipe(text, "pbcopy")
	case "linux":
		return copyLinux(text)
	default:
		return fmt.Errorf("clipboard copy not supported on %s", runtime.GOOS)
	}
}

func copyLinux(text string) error {
	// wl-copy first (Wayland), xclip as the X11 fallback
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return pipe(text, "wl-copy")
	}
	if _, err := exec.LookPath("xclip"); err == nil {
		return pipe(text, "xclip", "-selection", "clipboard")
	}
	return fmt.Errorf("no clipboard utility found (install wl-copy or xclip)")
}

func pipe(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
