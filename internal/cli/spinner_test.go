package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner("Rendering svg...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}

	// Stop is idempotent.
	s.Stop()
	s.Stop()
}

func TestSpinnerParentCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinnerWithContext(ctx, "Rendering png...")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner not cancelled with its parent context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	if stderrIsTerminal() {
		t.Skip("stderr is a terminal")
	}
	s := newSpinner("Rendering pdf...")
	if !s.silent {
		t.Error("spinner should be silent when stderr is not a terminal")
	}
	s.Start()
	s.StopWithSuccess("done")
}
