package clip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner starts a clipboard helper, feeds it stdin and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) error
}

// ExecRunner runs helpers as child processes.
//
// Helpers such as wl-copy and xclip fork a child that keeps serving the
// selection with the parent's descriptors, so stdout is discarded and stderr
// is passed through instead of being read from a pipe.
type ExecRunner struct {
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
