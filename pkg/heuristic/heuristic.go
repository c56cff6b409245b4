// Package heuristic derives best-effort summaries and replies directly
// from thread text. Used only when every remote provider attempt fails.
package heuristic

import (
	"math/rand"
	"strings"

	"github.com/threadwise/threadwise/pkg/parse"
	"github.com/threadwise/threadwise/pkg/types"
)

const (
	minLineLen  = 15
	minLineWord = 3
	// Characters read per minute, roughly 200 wpm at 5 chars per word.
	readingSpeed = 1000
	quoteMaxLen  = 60
)

var linkMarkers = []string{"http://", "https://", "www."}

// Summary extracts a plausible structured summary from raw thread text
// without any model call. Sentiment is always neutral: a guessed
// sentiment would be noise presented as signal.
func Summary(thread types.ThreadContent) types.SummaryResult {
	result := types.SummaryResult{
		Sentiment:  types.SentimentNeutral,
		WordCount:  thread.WordCount(),
		TimeToRead: ReadingTime(thread.Text),
	}

	for _, line := range meaningfulLines(thread.Text) {
		if len(result.KeyPoints) < parse.MaxKeyPoints {
			result.KeyPoints = append(result.KeyPoints, truncate(line, parse.KeyPointMaxLen))
			continue
		}
		if len(result.Quotes) < parse.MaxQuotes && len(line) <= quoteMaxLen {
			result.Quotes = append(result.Quotes, truncate(line, parse.QuoteMaxLen))
		}
		if len(result.Quotes) >= parse.MaxQuotes {
			break
		}
	}

	result.FillPlaceholders()
	return result
}

// ReadingTime estimates minutes to read the text. Non-empty text always
// reports at least one minute.
func ReadingTime(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	minutes := len(text) / readingSpeed
	if minutes < 1 {
		return 1
	}
	return minutes
}

var (
	gratitudeWords = []string{"thanks", "thank you", "grateful", "appreciate", "awesome", "great", "love"}
	questionMarks  = []string{"?", "how ", "why ", "what ", "when ", "anyone know"}

	gratitudeReplies = []string{
		"Glad this resonated with so many people!",
		"Appreciate all the kind words on this thread.",
		"Thanks for reading, happy it was useful!",
	}
	questionReplies = []string{
		"Great question, there's a solid discussion about this in the thread.",
		"A few people in the replies have answered this well already.",
		"Worth scrolling the thread, someone covered exactly this.",
	}
	defaultReplies = []string{
		"Interesting thread, thanks for sharing!",
		"This is a really thoughtful take.",
		"Following this discussion, lots of good points here.",
	}
)

// Reply picks a canned reply keyed off the first meaningful line of the
// thread, chosen uniformly at random within its keyword class.
func Reply(thread types.ThreadContent) string {
	lines := meaningfulLines(thread.Text)
	if len(lines) == 0 {
		return pick(defaultReplies)
	}

	first := strings.ToLower(lines[0])
	if containsAny(first, gratitudeWords) {
		return pick(gratitudeReplies)
	}
	if containsAny(first, questionMarks) {
		return pick(questionReplies)
	}
	return pick(defaultReplies)
}

// meaningfulLines filters thread text to lines long enough and wordy
// enough to carry content, skipping lines with link markers.
func meaningfulLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLen {
			continue
		}
		if len(strings.Fields(line)) < minLineWord {
			continue
		}
		if containsAny(strings.ToLower(line), linkMarkers) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func pick(replies []string) string {
	return replies[rand.Intn(len(replies))]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
