package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// fakeProvider scripts per-variant responses and records the queries it saw.
type fakeProvider struct {
	name    string
	results map[string][]Result
	err     error
	calls   []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(_ context.Context, req Request) ([]Result, error) {
	f.calls = append(f.calls, req.Query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[req.Query], nil
}

func newTestChain(providers ...Provider) *Chain {
	return &Chain{providers: providers, log: zerolog.Nop()}
}

func TestChainFirstSuccessWins(t *testing.T) {
	winning := []Result{{Title: "hit", URL: "https://example.com/hit"}}
	first := &fakeProvider{name: "first", results: map[string][]Result{"variant-b": winning}}
	second := &fakeProvider{name: "second", results: map[string][]Result{"variant-a": winning}}

	outcome, attempts, err := newTestChain(first, second).Run(
		context.Background(), []string{"variant-a", "variant-b"}, 5, queryclass.DepthBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Provider != "first" || outcome.Query != "variant-b" {
		t.Fatalf("winner = %s/%q, want first/variant-b", outcome.Provider, outcome.Query)
	}
	if len(second.calls) != 0 {
		t.Fatalf("second provider should never run after a win, got calls %v", second.calls)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
}

func TestChainTriesAllVariantsBeforeNextProvider(t *testing.T) {
	first := &fakeProvider{name: "first"}
	second := &fakeProvider{name: "second", results: map[string][]Result{
		"variant-a": {{Title: "ok", URL: "https://example.com"}},
	}}

	outcome, _, err := newTestChain(first, second).Run(
		context.Background(), []string{"variant-a", "variant-b"}, 5, queryclass.DepthBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(first.calls, ","); got != "variant-a,variant-b" {
		t.Fatalf("first provider calls = %q, want both variants in order", got)
	}
	if outcome.Provider != "second" {
		t.Fatalf("winner = %s, want second", outcome.Provider)
	}
}

func TestChainAggregatesAllTransportErrors(t *testing.T) {
	var providers []Provider
	for i := 1; i <= 5; i++ {
		providers = append(providers, &fakeProvider{
			name: fmt.Sprintf("backend-%d", i),
			err:  fmt.Errorf("transport failure %d", i),
		})
	}

	_, attempts, err := newTestChain(providers...).Run(
		context.Background(), []string{"xyz"}, 5, queryclass.DepthBasic)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	for i := 1; i <= 5; i++ {
		fragment := fmt.Sprintf("backend-%d: transport failure %d", i, i)
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("aggregated error missing %q: %v", fragment, err)
		}
	}
	if len(attempts) != 5 {
		t.Fatalf("attempts = %d, want 5", len(attempts))
	}
}

func TestChainZeroResultsIsNotFailure(t *testing.T) {
	errored := &fakeProvider{name: "errored", err: errors.New("boom")}
	empty := &fakeProvider{name: "empty"}

	outcome, _, err := newTestChain(errored, empty).Run(
		context.Background(), []string{"nothing to find"}, 5, queryclass.DepthBasic)
	if err != nil {
		t.Fatalf("zero results must not be an error, got %v", err)
	}
	if outcome.Provider != "" || len(outcome.Results) != 0 {
		t.Fatalf("expected winnerless outcome, got %+v", outcome)
	}
}

func TestChainRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := &fakeProvider{name: "never"}

	_, _, err := newTestChain(provider).Run(ctx, []string{"q"}, 5, queryclass.DepthBasic)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(provider.calls) != 0 {
		t.Fatal("provider should not run after cancellation")
	}
}
