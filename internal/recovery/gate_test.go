// internal/recovery/gate_test.go
package recovery

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestChanGateReleasesOnClose(t *testing.T) {
	ch := make(chan struct{})
	gate := &ChanGate{C: ch}
	close(ch)
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("Wait error: %v", err)
	}
}

func TestChanGateHonorsCancellation(t *testing.T) {
	gate := &ChanGate{C: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := gate.Wait(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestStdinGateReleasesOnNewline(t *testing.T) {
	var out bytes.Buffer
	gate := &StdinGate{
		Prompt: "Kill the consumer, then press Enter.",
		In:     strings.NewReader("\n"),
		Out:    &out,
	}
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	if !strings.Contains(out.String(), "Kill the consumer") {
		t.Errorf("prompt not written, got %q", out.String())
	}
}

// TestStdinGateReleasesOnEOF covers scripted runs whose piped stdin
// runs out: a closed input stream counts as a confirmation.
func TestStdinGateReleasesOnEOF(t *testing.T) {
	gate := &StdinGate{
		Prompt: "continue",
		In:     strings.NewReader(""),
		Out:    &bytes.Buffer{},
	}
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("Wait error: %v", err)
	}
}

func TestReleasedGate(t *testing.T) {
	if err := (ReleasedGate{}).Wait(context.Background()); err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (ReleasedGate{}).Wait(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
