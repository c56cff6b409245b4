// Package types defines core types for the Threadwise relay.
package types

import "strings"

// Sentiment classifies the overall tone of a thread.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Placeholder values used when a summary field cannot be recovered from
// model output or heuristics. Callers can always render the full shape.
const (
	PlaceholderKeyPoint = "No key points could be extracted from this thread."
	PlaceholderQuote    = "No notable quotes found."
)

// ThreadContent is the raw input for a summarization or reply request.
// Callers may attach extra metadata in their request bodies; only Text
// is consumed here.
type ThreadContent struct {
	Text string `json:"text"`
}

// WordCount returns the number of whitespace-separated words in the thread.
func (t ThreadContent) WordCount() int {
	return len(strings.Fields(t.Text))
}

// SummaryResult is the structured summary of a thread. KeyPoints and
// Quotes are never empty: missing values are filled with placeholders.
type SummaryResult struct {
	KeyPoints  []string  `json:"keyPoints"`
	Quotes     []string  `json:"quotes"`
	Sentiment  Sentiment `json:"sentiment"`
	WordCount  int       `json:"wordCount"`
	TimeToRead int       `json:"timeToRead"` // minutes
}

// FillPlaceholders ensures KeyPoints and Quotes are non-empty and the
// sentiment is one of the known values.
func (s *SummaryResult) FillPlaceholders() {
	if len(s.KeyPoints) == 0 {
		s.KeyPoints = []string{PlaceholderKeyPoint}
	}
	if len(s.Quotes) == 0 {
		s.Quotes = []string{PlaceholderQuote}
	}
	switch s.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		s.Sentiment = SentimentNeutral
	}
}
