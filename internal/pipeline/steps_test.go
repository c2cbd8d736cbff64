package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/aigrader/internal/analyzer"
	"github.com/nao1215/aigrader/internal/fetch"
	"github.com/nao1215/aigrader/internal/model"
	"github.com/nao1215/aigrader/internal/score"
)

// stubFetcher returns canned snapshots.
type stubFetcher struct {
	snap    *model.PageSnapshot
	err     error
	renders bool
	calls   int
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (*model.PageSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *stubFetcher) Renders() bool { return f.renders }

// textSnapshot builds a snapshot with roughly n words of text.
func textSnapshot(n int) *model.PageSnapshot {
	return &model.PageSnapshot{
		URL:       "https://example.com",
		Text:      strings.TrimSpace(strings.Repeat("word ", n)),
		WordCount: n,
	}
}

func TestFetchStep(t *testing.T) {
	t.Parallel()

	t.Run("stores the fetched snapshot", func(t *testing.T) {
		t.Parallel()

		primary := &stubFetcher{snap: textSnapshot(500)}
		state := NewState("https://example.com")
		step := NewFetchStep(primary, WithFetchLogger(slog.New(slog.DiscardHandler)))

		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if state.Snapshot == nil || state.Snapshot.WordCount != 500 {
			t.Errorf("Snapshot = %+v, want 500-word snapshot", state.Snapshot)
		}
	})

	t.Run("falls back to renderer on near-empty static fetch", func(t *testing.T) {
		t.Parallel()

		primary := &stubFetcher{snap: textSnapshot(10)}
		rendered := textSnapshot(800)
		rendered.Rendered = true
		renderer := &stubFetcher{snap: rendered, renders: true}

		state := NewState("https://example.com")
		step := NewFetchStep(primary,
			WithRenderer(renderer),
			WithFetchLogger(slog.New(slog.DiscardHandler)),
		)

		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if renderer.calls != 1 {
			t.Errorf("renderer called %d times, want 1", renderer.calls)
		}
		if !state.Snapshot.Rendered || state.Snapshot.WordCount != 800 {
			t.Errorf("Snapshot = %+v, want rendered snapshot", state.Snapshot)
		}
	})

	t.Run("keeps static snapshot when renderer fails", func(t *testing.T) {
		t.Parallel()

		primary := &stubFetcher{snap: textSnapshot(10)}
		renderer := &stubFetcher{err: errors.New("browser crashed"), renders: true}

		state := NewState("https://example.com")
		step := NewFetchStep(primary,
			WithRenderer(renderer),
			WithFetchLogger(slog.New(slog.DiscardHandler)),
		)

		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if state.Snapshot.WordCount != 10 {
			t.Errorf("Snapshot word count = %d, want the static 10", state.Snapshot.WordCount)
		}
	})

	t.Run("no renderer fallback for well-populated pages", func(t *testing.T) {
		t.Parallel()

		primary := &stubFetcher{snap: textSnapshot(500)}
		renderer := &stubFetcher{snap: textSnapshot(800), renders: true}

		state := NewState("https://example.com")
		step := NewFetchStep(primary, WithRenderer(renderer))

		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if renderer.calls != 0 {
			t.Errorf("renderer called %d times, want 0", renderer.calls)
		}
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		fetchErr := errors.New("connection refused")
		primary := &stubFetcher{err: fetchErr}

		state := NewState("https://example.com")
		if err := NewFetchStep(primary).Do(context.Background(), state); !errors.Is(err, fetchErr) {
			t.Errorf("Do() error = %v, want %v", err, fetchErr)
		}
	})
}

// compile-time check that the stub satisfies the real interface.
var _ fetch.Fetcher = (*stubFetcher)(nil)

func TestAnalyzeAndAggregateSteps(t *testing.T) {
	t.Parallel()

	snap := textSnapshot(600)
	snap.StatusCode = 200
	snap.Title = "A Practical Guide to Something Useful"
	snap.Headings = map[int][]string{1: {"Guide"}, 2: {"Basics", "Advanced", "FAQ"}}
	snap.Paragraphs = []string{strings.Repeat("word ", 80), strings.Repeat("word ", 120)}

	state := NewState("https://example.com")
	state.Snapshot = snap

	runner := analyzer.NewRunner(slog.New(slog.DiscardHandler))
	analyze := NewAnalyzeStep(runner, 2026)
	if err := analyze.Do(context.Background(), state); err != nil {
		t.Fatalf("analyze Do() error = %v", err)
	}
	if len(state.Results) != len(model.AllCategories()) {
		t.Fatalf("got %d results, want %d", len(state.Results), len(model.AllCategories()))
	}
	if state.Performance == nil {
		t.Fatal("analyze step did not install fallback performance data")
	}

	agg, err := score.NewAggregator(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewAggregateStep(agg).Do(context.Background(), state); err != nil {
		t.Fatalf("aggregate Do() error = %v", err)
	}
	if state.Report == nil {
		t.Fatal("Report = nil after aggregation")
	}
	if state.Report.URL != "https://example.com" {
		t.Errorf("Report.URL = %q, want the graded URL", state.Report.URL)
	}
	if state.Report.OverallScore < 0 || state.Report.OverallScore > 100 {
		t.Errorf("OverallScore = %v, out of range", state.Report.OverallScore)
	}
	if state.Report.StatusText == "" {
		t.Error("StatusText is empty")
	}
}

func TestAnalyzeStepRequiresSnapshot(t *testing.T) {
	t.Parallel()

	runner := analyzer.NewRunner(slog.New(slog.DiscardHandler))
	state := NewState("https://example.com")
	if err := NewAnalyzeStep(runner, 2026).Do(context.Background(), state); err == nil {
		t.Error("Do() error = nil, want missing-snapshot error")
	}
}
