// Package clipboard puts text on the system clipboard through whichever
// platform tool is installed.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// linuxTools in probe order: X11 first, Wayland last.
var linuxTools = [][]string{
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"wl-copy"},
}

// tool resolves the copy command for this platform, or an error naming
// what to install.
func tool() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pbcopy"), nil
	case "windows":
		// clip.exe also covers WSL
		return exec.Command("clip.exe"), nil
	case "linux":
		for _, candidate := range linuxTools {
			if _, err := exec.LookPath(candidate[0]); err == nil {
				return exec.Command(candidate[0], candidate[1:]...), nil
			}
		}
		return nil, fmt.Errorf("no clipboard command found (install xclip, xsel, or wl-clipboard)")
	}
	return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}

// Copy places text on the system clipboard.
func Copy(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to copy")
	}
	cmd, err := tool()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
