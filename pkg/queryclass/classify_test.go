package queryclass

import (
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Classification
	}{
		{"what is today's date", Classification{IsDatetimeQuery: true}},
		{"what day of the week is it now", Classification{IsDatetimeQuery: true}},
		{"现在几点", Classification{IsDatetimeQuery: true}},
		{"今天星期几", Classification{IsDatetimeQuery: true}},
		{"what happened today", Classification{IsTodayRelative: true}},
		{"today's news headlines", Classification{IsTodayRelative: true}},
		{"今天发生了什么", Classification{IsTodayRelative: true}},
		{"今日头条新闻", Classification{IsTodayRelative: true, IsTimeSensitive: true}},
		{"latest golang release", Classification{IsTimeSensitive: true}},
		{"bitcoin price", Classification{IsTimeSensitive: true}},
		{"今日金价", Classification{IsTimeSensitive: true}},
		{"北京天气", Classification{IsTimeSensitive: true}},
		{"what is the capital of France", Classification{}},
		{"explain binary search trees", Classification{}},
		{"", Classification{}},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	for _, text := range []string{"今天发生了什么", "latest news", "capital of France"} {
		first := Classify(text)
		second := Classify(text)
		if first != second {
			t.Errorf("Classify(%q) not idempotent: %+v then %+v", text, first, second)
		}
	}
}

func TestDepthFor(t *testing.T) {
	tests := []struct {
		text string
		want Depth
	}{
		{"compare mysql and postgres", DepthAdvanced},
		{"in-depth research on transformers", DepthAdvanced},
		{"对比一下这两个方案", DepthAdvanced},
		{"what time is it", DepthBasic},
		{"今日金价", DepthBasic},
		{"", DepthBasic},
	}
	for _, tt := range tests {
		if got := DepthFor(tt.text); got != tt.want {
			t.Errorf("DepthFor(%q) = %q, want %q", tt.text, got, tt.want)
		}
		// DepthFor is a pure function of the text.
		if again := DepthFor(tt.text); again != tt.want {
			t.Errorf("DepthFor(%q) not idempotent", tt.text)
		}
	}
}

func TestNormalizeDepth(t *testing.T) {
	if got := NormalizeDepth(" Advanced "); got != DepthAdvanced {
		t.Errorf("NormalizeDepth(Advanced) = %q", got)
	}
	if got := NormalizeDepth("basic"); got != DepthBasic {
		t.Errorf("NormalizeDepth(basic) = %q", got)
	}
	if got := NormalizeDepth("bogus"); got != DepthBasic {
		t.Errorf("NormalizeDepth(bogus) = %q", got)
	}
}

func TestRewriteTodayRelative(t *testing.T) {
	now := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)
	raw := "今天发生了什么"
	variants := Rewrite(raw, now)
	if len(variants) == 0 {
		t.Fatal("expected variants")
	}
	if variants[len(variants)-1] != raw {
		t.Fatalf("last variant = %q, want raw text", variants[len(variants)-1])
	}

	var hasISO, hasLongForm bool
	for _, v := range variants {
		if strings.HasSuffix(v, "2026-01-02") {
			hasISO = true
		}
		if strings.HasSuffix(v, "January 2, 2026 Friday") {
			hasLongForm = true
		}
	}
	if !hasISO {
		t.Errorf("no variant ends in ISO date: %v", variants)
	}
	if !hasLongForm {
		t.Errorf("no variant ends in weekday-qualified date: %v", variants)
	}
}

func TestRewriteDatetime(t *testing.T) {
	now := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)
	variants := Rewrite("what is today's date", now)
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %v", variants)
	}
	if !strings.Contains(variants[0], "real-time date time weekday") {
		t.Errorf("first variant = %q", variants[0])
	}
	if variants[2] != "what is today's date" {
		t.Errorf("last variant = %q, want raw", variants[2])
	}
}

func TestRewriteTimeSensitive(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	variants := Rewrite("今日金价", now)
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %v", variants)
	}
	if !strings.HasSuffix(variants[0], "2026") {
		t.Errorf("first variant = %q, want year suffix", variants[0])
	}
	if !strings.HasSuffix(variants[1], "latest update") {
		t.Errorf("second variant = %q", variants[1])
	}
}

func TestRewriteFallbackOnly(t *testing.T) {
	now := time.Now()
	variants := Rewrite("  explain quicksort  ", now)
	if len(variants) != 1 || variants[0] != "explain quicksort" {
		t.Fatalf("variants = %v, want trimmed raw only", variants)
	}
	if Rewrite("   ", now) != nil {
		t.Fatal("expected nil variants for blank text")
	}
}
