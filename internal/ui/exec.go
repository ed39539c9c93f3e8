package ui

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/catchup/internal/clipboard"
	"github.com/nickpending/catchup/internal/stream"
)

// targetOpenedMsg reports the outcome of handing a target to the platform opener
type targetOpenedMsg struct {
	target string
	err    error
}

// targetYankedMsg reports the outcome of a clipboard copy
type targetYankedMsg struct {
	target string
	err    error
}

// openTarget hands a payload path or URL to the platform opener. Start, not
// Run: the opener must not block the update loop.
func openTarget(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// currentTarget resolves what open and yank act on: the payload path for
// downloaded streams, the URL for linked ones, the ledger line for manual.
func currentTarget(st *stream.Stream) (string, error) {
	if st == nil {
		return "", fmt.Errorf("no stream selected")
	}
	c := st.Cursor
	switch c.State() {
	case stream.NotStarted:
		return "", fmt.Errorf("%s has not been started yet", st.Name)
	case stream.Exhausted:
		return "", fmt.Errorf("%s is caught up", st.Name)
	}
	switch st.Kind {
	case stream.Downloaded:
		item := stream.Item{Date: c.Date, Name: c.Name, Ref: c.Ref}
		return filepath.Join(st.Dir, item.PayloadName()), nil
	case stream.Linked:
		return c.Ref, nil
	}
	return c.Date + stream.FieldSep + c.Name, nil
}

// openCurrent opens the stream's current item with the platform opener
func openCurrent(st *stream.Stream) tea.Cmd {
	return func() tea.Msg {
		target, err := currentTarget(st)
		if err != nil {
			return targetOpenedMsg{err: err}
		}
		if st.Kind == stream.Manual {
			return targetOpenedMsg{err: fmt.Errorf("manual items have no payload to open")}
		}
		if err := openTarget(target); err != nil {
			return targetOpenedMsg{err: err}
		}
		return targetOpenedMsg{target: target}
	}
}

// yankCurrent copies the stream's current item target to the clipboard
func yankCurrent(st *stream.Stream) tea.Cmd {
	return func() tea.Msg {
		target, err := currentTarget(st)
		if err != nil {
			return targetYankedMsg{err: err}
		}
		if err := clipboard.Copy(target); err != nil {
			return targetYankedMsg{err: err}
		}
		return targetYankedMsg{target: target}
	}
}
