package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
	"github.com/studyloop/tutorbridge/pkg/search"
)

type fakeSearcher struct {
	outcome *search.Outcome
	err     error
	calls   int
	queries []string
}

func (f *fakeSearcher) Run(ctx context.Context, rawQuery string, limit int) (*search.Outcome, error) {
	f.calls++
	f.queries = append(f.queries, rawQuery)
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func newTestChatService(t *testing.T, searcher Searcher) *Service {
	t.Helper()
	model := newFakeModel(t, 200, "the answer")
	return NewService(model, NewRouter(nil, zerolog.Nop()), searcher, DefaultPersonaPrompt, zerolog.Nop())
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := newTestChatService(t, &fakeSearcher{})
	if _, err := svc.Chat(context.Background(), ChatRequest{Username: "amy", Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestChatWithoutSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username: "amy",
		Message:  "What is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if resp.UsedWebSearch {
		t.Error("search should be off when UseWebSearch is false")
	}
	if searcher.calls != 0 {
		t.Errorf("searcher called %d times, want 0", searcher.calls)
	}
	if resp.ID == "" {
		t.Error("response ID missing")
	}
}

func TestChatAutoRoutingUsesHeuristic(t *testing.T) {
	searcher := &fakeSearcher{outcome: &search.Outcome{
		Query:    "今日金价 2026",
		Provider: search.ProviderTavily,
		Depth:    queryclass.DepthBasic,
		Results: []search.Result{
			{Title: "Gold today", URL: "https://gold.example", Snippet: "price info"},
		},
	}}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:      "amy",
		Message:       "今日金价是多少",
		UseWebSearch:  true,
		AutoWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !resp.UsedWebSearch {
		t.Fatal("expected auto routing to trigger search")
	}
	if resp.SearchReason != heuristicTimeSensitiveReason {
		t.Errorf("unexpected reason %q", resp.SearchReason)
	}
	if searcher.calls != 1 {
		t.Fatalf("searcher called %d times, want 1", searcher.calls)
	}
	if searcher.queries[0] != "今日金价是多少" {
		t.Errorf("searcher got query %q", searcher.queries[0])
	}
	if resp.Provider != search.ProviderTavily || resp.EffectiveQuery != "今日金价 2026" {
		t.Errorf("provenance not propagated: provider=%q query=%q", resp.Provider, resp.EffectiveQuery)
	}
	if len(resp.Results) != 1 || resp.Results[0].URL != "https://gold.example" {
		t.Errorf("results not propagated: %v", resp.Results)
	}
}

func TestChatAutoRoutingSkipsGeneralKnowledge(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:      "amy",
		Message:       "Explain the Pythagorean theorem",
		UseWebSearch:  true,
		AutoWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.UsedWebSearch {
		t.Error("general-knowledge question should not search")
	}
	if resp.SearchReason != heuristicGeneralReason {
		t.Errorf("unexpected reason %q", resp.SearchReason)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher called %d times, want 0", searcher.calls)
	}
}

func TestChatForcedSearch(t *testing.T) {
	searcher := &fakeSearcher{outcome: &search.Outcome{Query: "anything"}}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:     "amy",
		Message:      "Explain the Pythagorean theorem",
		UseWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !resp.UsedWebSearch {
		t.Error("UseWebSearch without auto must force search on")
	}
	if searcher.calls != 1 {
		t.Errorf("searcher called %d times, want 1", searcher.calls)
	}
}

func TestChatWithoutSearcherReportsNoSearch(t *testing.T) {
	model := newFakeModel(t, 200, "the answer")
	svc := NewService(model, NewRouter(nil, zerolog.Nop()), nil, DefaultPersonaPrompt, zerolog.Nop())

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:     "amy",
		Message:      "latest AI news",
		UseWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.UsedWebSearch {
		t.Error("provenance claims search ran without a searcher")
	}
	if resp.SearchReason != "" {
		t.Errorf("unexpected search reason %q", resp.SearchReason)
	}
	if resp.Answer != "the answer" {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
}

func TestChatDegradesOnSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("all search providers failed: everything down")}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:     "amy",
		Message:      "latest AI news",
		UseWebSearch: true,
	})
	if err != nil {
		t.Fatalf("search failure must not abort the turn: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if !strings.Contains(resp.SearchError, "everything down") {
		t.Errorf("search error not surfaced: %q", resp.SearchError)
	}
	if resp.Provider != "" || len(resp.Results) != 0 {
		t.Error("failed search must leave provenance empty")
	}
}

func TestChatModelFailureIsFatal(t *testing.T) {
	model := newFakeModel(t, 400, "")
	svc := NewService(model, NewRouter(nil, zerolog.Nop()), &fakeSearcher{}, DefaultPersonaPrompt, zerolog.Nop())

	if _, err := svc.Chat(context.Background(), ChatRequest{Username: "amy", Message: "hello"}); err == nil {
		t.Fatal("expected model endpoint failure to abort the turn")
	}
}

func TestChatCapsProvenanceResults(t *testing.T) {
	var results []search.Result
	for i := 0; i < 12; i++ {
		results = append(results, search.Result{
			Title: "r",
			URL:   "https://example.com/" + string(rune('a'+i)),
		})
	}
	searcher := &fakeSearcher{outcome: &search.Outcome{Query: "q", Results: results}}
	svc := newTestChatService(t, searcher)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Username:     "amy",
		Message:      "latest AI news",
		UseWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if len(resp.Results) != MaxProvenanceResults {
		t.Errorf("expected %d provenance results, got %d", MaxProvenanceResults, len(resp.Results))
	}
}

