package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nao1215/aigrader/internal/model"
)

// recordingStep records its execution and optionally fails.
type recordingStep struct {
	name string
	err  error
	ran  *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *State) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var ran []string
		p := New(WithLogger(slog.New(slog.DiscardHandler)))
		p.AddSteps(
			&recordingStep{name: "first", ran: &ran},
			&recordingStep{name: "second", ran: &ran},
			&recordingStep{name: "third", ran: &ran},
		)

		state := NewState("https://example.com")
		if err := p.Execute(context.Background(), state); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(ran) != len(want) {
			t.Fatalf("ran %d steps, want %d", len(ran), len(want))
		}
		for i := range want {
			if ran[i] != want[i] {
				t.Errorf("ran[%d] = %q, want %q", i, ran[i], want[i])
			}
		}
		if len(state.PerformedSteps) != 3 {
			t.Errorf("PerformedSteps = %v, want 3 entries", state.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		var ran []string
		stepErr := errors.New("boom")
		p := New(WithLogger(slog.New(slog.DiscardHandler)))
		p.AddSteps(
			&recordingStep{name: "first", err: stepErr, ran: &ran},
			&recordingStep{name: "second", ran: &ran},
		)

		err := p.Execute(context.Background(), NewState("https://example.com"))
		if !errors.Is(err, stepErr) {
			t.Fatalf("Execute() error = %v, want %v", err, stepErr)
		}
		if len(ran) != 1 {
			t.Errorf("ran %d steps after failure, want 1", len(ran))
		}
	})

	t.Run("continue on error runs remaining steps", func(t *testing.T) {
		t.Parallel()

		var ran []string
		p := New(
			WithLogger(slog.New(slog.DiscardHandler)),
			WithContinueOnError(true),
		)
		p.AddSteps(
			&recordingStep{name: "first", err: errors.New("boom"), ran: &ran},
			&recordingStep{name: "second", ran: &ran},
		)

		if err := p.Execute(context.Background(), NewState("https://example.com")); err != nil {
			t.Fatalf("Execute() error = %v, want nil with continueOnError", err)
		}
		if len(ran) != 2 {
			t.Errorf("ran %d steps, want 2", len(ran))
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		var ran []string
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := New(WithLogger(slog.New(slog.DiscardHandler)))
		p.AddStep(&recordingStep{name: "never", ran: &ran})

		if err := p.Execute(ctx, NewState("https://example.com")); !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v, want context.Canceled", err)
		}
		if len(ran) != 0 {
			t.Errorf("ran %d steps under cancelled context, want 0", len(ran))
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var ran []string
	p := New(WithLogger(slog.New(slog.DiscardHandler)))
	p.AddSteps(
		&recordingStep{name: "fetch", ran: &ran},
		&recordingStep{name: "analyze", ran: &ran},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "fetch" || names[1] != "analyze" {
		t.Errorf("StepNames() = %v, want [fetch analyze]", names)
	}
}

// stubMeasurer returns a fixed performance snapshot.
type stubMeasurer struct {
	snap *model.PerformanceSnapshot
}

func (m *stubMeasurer) Measure(_ context.Context, _ string) *model.PerformanceSnapshot {
	return m.snap
}

func TestPerformanceStep(t *testing.T) {
	t.Parallel()

	t.Run("nil client uses fallbacks", func(t *testing.T) {
		t.Parallel()

		state := NewState("https://example.com")
		if err := NewPerformanceStep(nil).Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if state.Performance == nil {
			t.Fatal("Performance = nil, want fallback snapshot")
		}
		if state.Performance.PerformanceScore != model.FallbackPerformanceScore {
			t.Errorf("PerformanceScore = %v, want fallback %v",
				state.Performance.PerformanceScore, model.FallbackPerformanceScore)
		}
	})

	t.Run("client result is stored", func(t *testing.T) {
		t.Parallel()

		want := &model.PerformanceSnapshot{PageSpeedOK: true, PerformanceScore: 93}
		state := NewState("https://example.com")
		if err := NewPerformanceStep(&stubMeasurer{snap: want}).Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if state.Performance != want {
			t.Errorf("Performance = %+v, want stub snapshot", state.Performance)
		}
	})
}
