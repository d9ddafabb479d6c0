package report

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a finished report to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// SystemOpener opens files with the platform's default application.
type SystemOpener struct{}

// Open starts the viewer and returns without waiting for it to exit.
func (SystemOpener) Open(ctx context.Context, path string) error {
	name, args := openCommand(runtime.GOOS, path)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
