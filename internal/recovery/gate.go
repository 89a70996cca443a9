// internal/recovery/gate.go
package recovery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// Gate blocks the monitor until an operator or a test driver confirms
// that a manual step has been carried out.
type Gate interface {
	// Wait blocks until the gate is released or ctx is canceled.
	Wait(ctx context.Context) error
}

// StdinGate releases when the operator presses Enter. A closed input
// stream counts as a release so piped runs can script the gates.
type StdinGate struct {
	Prompt string
	In     io.Reader
	Out    io.Writer
}

// Wait prints the prompt and blocks for a newline on In.
func (g *StdinGate) Wait(ctx context.Context) error {
	in := g.In
	if in == nil {
		in = os.Stdin
	}
	out := g.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "\n>>> %s ", g.Prompt)

	confirmed := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		confirmed <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-confirmed:
		if err != nil && err != io.EOF {
			return fmt.Errorf("read gate confirmation: %w", err)
		}
		return nil
	}
}

// ChanGate releases when its channel receives or closes. Tests and the
// terminal view drive gates with it.
type ChanGate struct {
	C <-chan struct{}
}

// Wait blocks on the channel.
func (g *ChanGate) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.C:
		return nil
	}
}

// ReleasedGate never blocks; dry runs auto-confirm each step.
type ReleasedGate struct{}

// Wait returns immediately unless ctx is already canceled.
func (ReleasedGate) Wait(ctx context.Context) error {
	return ctx.Err()
}
