package poller

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync/atomic"
)

// CommandOpener opens the payment URL with an external browser command.
// The URL is appended as the last argument.
type CommandOpener struct {
	Command []string
	// Wait treats the command's exit as the payer closing the window.
	// Launchers that return immediately, such as xdg-open, must leave it false.
	Wait bool
}

// DefaultCommand returns the platform's URL launcher.
func DefaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Open starts the browser command. A command that cannot be started
// reports ErrPopupBlocked.
func (o *CommandOpener) Open(ctx context.Context, url string) (Window, error) {
	command := o.Command
	if len(command) == 0 {
		command = DefaultCommand()
	}
	args := append(append([]string(nil), command[1:]...), url)
	cmd := exec.CommandContext(ctx, command[0], args...)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	w := &processWindow{}
	done := func() { w.closed.Store(true) }
	if !o.Wait {
		// Reap the launcher without tying its exit to the window.
		done = func() {}
	}
	go func() {
		_ = cmd.Wait()
		done()
	}()
	return w, nil
}

type processWindow struct {
	closed atomic.Bool
}

func (w *processWindow) Closed() bool {
	return w.closed.Load()
}

// Compile-time check
var _ Opener = (*CommandOpener)(nil)
