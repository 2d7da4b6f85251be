package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/storeshot/pkg/observability"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering premium...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Rendering premium... 2/4")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Rendering premium...") {
		t.Errorf("output %q missing initial message", got)
	}
	if !strings.Contains(got, "2/4") {
		t.Errorf("output %q missing updated message", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	done := make(chan struct{})
	go func() {
		newSpinnerTo(context.Background(), &syncBuffer{}, "never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestTrackProgress(t *testing.T) {
	defer observability.Reset()
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Rendering")

	restore := trackProgress(s, "Rendering")
	hooks := observability.Render()
	ctx := context.Background()
	hooks.OnRunStart(ctx, "run", 3)
	hooks.OnRenderComplete(ctx, "premium", 0, "finalized", time.Millisecond, nil)
	hooks.OnRenderComplete(ctx, "premium", 2, "finalized", time.Millisecond, nil)

	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()
	if msg != "Rendering 2/3" {
		t.Errorf("message = %q, want %q", msg, "Rendering 2/3")
	}

	restore()
	if _, ok := observability.Render().(*progressHooks); ok {
		t.Error("restore left the progress hooks registered")
	}
}
