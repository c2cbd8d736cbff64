package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/nao1215/aigrader/internal/model"
)

// reportStep installs a canned report, failing for one specific URL.
type reportStep struct {
	failURL string
	calls   *atomic.Int32
}

func (s *reportStep) Name() string { return "stub" }

func (s *reportStep) Do(_ context.Context, state *State) error {
	s.calls.Add(1)
	if state.URL == s.failURL {
		return errors.New("fetch failed")
	}
	state.Report = &model.GradeReport{URL: state.URL, OverallScore: 80}
	return nil
}

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results preserve input order", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		factory := func() *Pipeline {
			p := New(WithLogger(slog.New(slog.DiscardHandler)))
			p.AddStep(&reportStep{calls: &calls})
			return p
		}

		urls := []string{
			"https://a.example",
			"https://b.example",
			"https://c.example",
		}
		bp := NewBatchProcessor(factory,
			WithBatchLogger(slog.New(slog.DiscardHandler)),
			WithConcurrency(2),
		)

		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("ProcessBatch() error = %v", err)
		}
		if len(results) != len(urls) {
			t.Fatalf("got %d results, want %d", len(results), len(urls))
		}
		for i, r := range results {
			if r.URL != urls[i] {
				t.Errorf("results[%d].URL = %q, want %q", i, r.URL, urls[i])
			}
			if r.Err != nil || r.Report == nil {
				t.Errorf("results[%d] = %+v, want success", i, r)
			}
		}
		if got := calls.Load(); got != int32(len(urls)) {
			t.Errorf("step ran %d times, want %d", got, len(urls))
		}
	})

	t.Run("single failure does not abort siblings", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		factory := func() *Pipeline {
			p := New(WithLogger(slog.New(slog.DiscardHandler)))
			p.AddStep(&reportStep{failURL: "https://bad.example", calls: &calls})
			return p
		}

		urls := []string{"https://good.example", "https://bad.example", "https://also-good.example"}
		bp := NewBatchProcessor(factory, WithBatchLogger(slog.New(slog.DiscardHandler)))

		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("ProcessBatch() error = %v", err)
		}

		if results[0].Err != nil || results[2].Err != nil {
			t.Error("healthy URLs reported errors")
		}
		if results[1].Err == nil {
			t.Error("failing URL reported no error")
		}
		if results[1].Report != nil {
			t.Error("failing URL has a report")
		}
	})

	t.Run("cancelled context aborts the batch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		factory := func() *Pipeline {
			p := New(WithLogger(slog.New(slog.DiscardHandler)))
			p.AddStep(&reportStep{calls: &calls})
			return p
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(factory, WithBatchLogger(slog.New(slog.DiscardHandler)))
		_, err := bp.ProcessBatch(ctx, []string{"https://a.example", "https://b.example"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ProcessBatch() error = %v, want context.Canceled", err)
		}
	})
}
