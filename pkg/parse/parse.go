// Package parse converts free-text model output into a structured
// summary. It is deterministic and does no I/O.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/threadwise/threadwise/pkg/types"
)

// Caps applied to parsed fields. Truncation is unconditional, even
// mid-word: space budgeting, not an error.
const (
	MaxKeyPoints   = 3
	MaxQuotes      = 2
	KeyPointMaxLen = 100
	QuoteMaxLen    = 80
	fallbackMinLen = 20
	fallbackMaxLen = 150
	pointShapedMin = 10
	pointShapedMax = 200
)

var (
	bulletRe  = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	integerRe = regexp.MustCompile(`\d+`)
)

type section int

const (
	sectionNone section = iota
	sectionPoints
	sectionQuotes
)

// Summary parses raw model output into a SummaryResult.
//
// It scans non-empty lines top to bottom, switching sections on header
// lines ("key points", "quotes"), classifying a sentiment marker line,
// and pulling the first integer from a reading-time marker line. If no
// structure is recognized at all, a fallback pass promotes mid-length
// lines to points and quotes. Fields still empty afterwards get
// placeholders; the result shape is always renderable.
func Summary(raw string) types.SummaryResult {
	var result types.SummaryResult
	result.Sentiment = types.SentimentNeutral

	lines := nonEmptyLines(raw)

	current := sectionNone
	for _, line := range lines {
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "key points") || strings.Contains(lower, "main points"):
			current = sectionPoints
			continue
		case strings.Contains(lower, "notable quotes") || strings.Contains(lower, "quotes"):
			current = sectionQuotes
			continue
		case strings.Contains(lower, "sentiment"):
			result.Sentiment = classifySentiment(lower)
			current = sectionNone
			continue
		case strings.Contains(lower, "reading time") || strings.Contains(lower, "time to read"):
			if m := integerRe.FindString(line); m != "" {
				if n, err := strconv.Atoi(m); err == nil && n >= 0 {
					result.TimeToRead = n
				}
			}
			current = sectionNone
			continue
		}

		switch current {
		case sectionPoints:
			if len(result.KeyPoints) >= MaxKeyPoints {
				continue
			}
			if point, ok := extractPoint(line); ok {
				result.KeyPoints = append(result.KeyPoints, truncate(point, KeyPointMaxLen))
			}
		case sectionQuotes:
			if len(result.Quotes) >= MaxQuotes {
				continue
			}
			if quote, ok := extractQuote(line); ok {
				result.Quotes = append(result.Quotes, truncate(quote, QuoteMaxLen))
			}
		}
	}

	if len(result.KeyPoints) == 0 && len(result.Quotes) == 0 {
		fallbackPass(lines, &result)
	}
	result.FillPlaceholders()
	return result
}

// extractPoint accepts bulleted/numbered lines and otherwise
// point-shaped lines, with the leading marker stripped.
func extractPoint(line string) (string, bool) {
	if bulletRe.MatchString(line) {
		stripped := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if stripped != "" {
			return stripped, true
		}
		return "", false
	}
	if len(line) >= pointShapedMin && len(line) <= pointShapedMax {
		return line, true
	}
	return "", false
}

// extractQuote accepts bulleted or quoted lines, stripped of markers
// and surrounding quote characters.
func extractQuote(line string) (string, bool) {
	stripped := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
	stripped = strings.Trim(stripped, `"'“”‘’`)
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return "", false
	}
	if len(stripped) < pointShapedMin && !bulletRe.MatchString(line) {
		return "", false
	}
	return stripped, true
}

// fallbackPass assigns mid-length lines in order: first to key points,
// the rest to quotes.
func fallbackPass(lines []string, result *types.SummaryResult) {
	for _, line := range lines {
		if len(line) < fallbackMinLen || len(line) > fallbackMaxLen {
			continue
		}
		if len(result.KeyPoints) < MaxKeyPoints {
			result.KeyPoints = append(result.KeyPoints, truncate(line, KeyPointMaxLen))
			continue
		}
		if len(result.Quotes) < MaxQuotes {
			result.Quotes = append(result.Quotes, truncate(strings.Trim(line, `"'“”‘’`), QuoteMaxLen))
			continue
		}
		break
	}
}

func classifySentiment(lower string) types.Sentiment {
	switch {
	case strings.Contains(lower, "positive"):
		return types.SentimentPositive
	case strings.Contains(lower, "negative"):
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
