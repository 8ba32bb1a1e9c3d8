// Package queryclass decides whether a question needs live information and
// derives search depth and rewritten query variants from the raw text.
// Everything here is deterministic: the same text always produces the same
// classification, and the clock used for rewrites is passed in by the caller.
package queryclass

import (
	"regexp"
	"strings"
)

// Depth is a provider-agnostic effort hint.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthAdvanced Depth = "advanced"
)

// Classification describes why a question may require live information.
type Classification struct {
	// IsDatetimeQuery is set when the question asks for the current
	// date, time or weekday ("what day is it today", "现在几点").
	IsDatetimeQuery bool
	// IsTodayRelative is set when the question asks what is happening
	// today ("what happened today", "今天发生了什么").
	IsTodayRelative bool
	// IsTimeSensitive is set for prices, weather, "latest" and similar
	// queries whose answer goes stale quickly.
	IsTimeSensitive bool
}

// TimeAware reports whether any classification flag is set.
func (c Classification) TimeAware() bool {
	return c.IsDatetimeQuery || c.IsTodayRelative || c.IsTimeSensitive
}

var (
	// Datetime queries combine a temporal deictic with a date/time noun,
	// in either tested language.
	deicticPattern  = regexp.MustCompile(`(?i)\b(today|now|right now|current|currently)\b|今天|现在|当前|此刻|目前`)
	dateNounPattern = regexp.MustCompile(`(?i)\b(date|time|day of (the )?week|weekday|what day)\b|几号|几点|日期|时间|星期|礼拜|周几`)

	todayRelativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwhat(?:'s| is| has)?\s+happen(?:ed|ing|s)?\s+today\b`),
		regexp.MustCompile(`(?i)\btoday'?s (news|headlines|top stories|events)\b`),
		regexp.MustCompile(`(?i)\b(news|headlines) (for |of )?today\b`),
		regexp.MustCompile(`今天(发生|有什么|有啥)`),
		regexp.MustCompile(`今[天日].{0,6}(新闻|头条|大事|要闻)`),
		regexp.MustCompile(`(新闻|头条|大事|要闻).{0,4}今[天日]`),
	}

	timeSensitivePattern = regexp.MustCompile(`(?i)\b(latest|recent|recently|breaking|price|prices|weather|forecast|stock|stocks|exchange rate|score|live)\b|今日|最新|最近|实时|现价|股价|金价|币价|油价|房价|天气|气温|汇率|比分|行情`)

	advancedDepthPattern = regexp.MustCompile(`(?i)\b(in-?depth|compare|comparison|versus|research|survey|comprehensive|analysis|analyze)\b|深入|详细|对比|比较|研究|调研|综述|全面`)
)

// Classify inspects raw question text and returns its time-sensitivity
// flags. It is side-effect-free and idempotent.
func Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Classification{}
	}

	var c Classification
	c.IsDatetimeQuery = deicticPattern.MatchString(trimmed) && dateNounPattern.MatchString(trimmed)
	for _, p := range todayRelativePatterns {
		if p.MatchString(trimmed) {
			c.IsTodayRelative = true
			break
		}
	}
	c.IsTimeSensitive = timeSensitivePattern.MatchString(trimmed)
	return c
}

// DepthFor selects the search depth for a query. Deep, comparative or
// research intent gets the advanced depth; everything else stays basic to
// bound latency and cost.
func DepthFor(text string) Depth {
	if advancedDepthPattern.MatchString(strings.TrimSpace(text)) {
		return DepthAdvanced
	}
	return DepthBasic
}

// NormalizeDepth clamps an arbitrary depth string to a valid Depth.
func NormalizeDepth(value string) Depth {
	if strings.EqualFold(strings.TrimSpace(value), string(DepthAdvanced)) {
		return DepthAdvanced
	}
	return DepthBasic
}
