package parse

import (
	"strings"
	"testing"

	"github.com/threadwise/threadwise/pkg/types"
)

func TestSummary_WellFormed(t *testing.T) {
	raw := `Here is the summary.

Key Points:
1. The thread argues remote work boosts focus.
2. Several replies dispute the productivity data.
3. The author shares a follow-up study.

Notable Quotes:
- "Focus time doubled for our team."
- "The data is cherry-picked."

Sentiment: positive
Reading time: 4 minutes`

	result := Summary(raw)

	wantPoints := []string{
		"The thread argues remote work boosts focus.",
		"Several replies dispute the productivity data.",
		"The author shares a follow-up study.",
	}
	if len(result.KeyPoints) != 3 {
		t.Fatalf("expected 3 key points, got %d: %v", len(result.KeyPoints), result.KeyPoints)
	}
	for i, want := range wantPoints {
		if result.KeyPoints[i] != want {
			t.Errorf("key point %d = %q, want %q", i, result.KeyPoints[i], want)
		}
	}

	wantQuotes := []string{
		"Focus time doubled for our team.",
		"The data is cherry-picked.",
	}
	if len(result.Quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d: %v", len(result.Quotes), result.Quotes)
	}
	for i, want := range wantQuotes {
		if result.Quotes[i] != want {
			t.Errorf("quote %d = %q, want %q", i, result.Quotes[i], want)
		}
	}

	if result.Sentiment != types.SentimentPositive {
		t.Errorf("sentiment = %q, want positive", result.Sentiment)
	}
	if result.TimeToRead != 4 {
		t.Errorf("time to read = %d, want 4", result.TimeToRead)
	}
}

func TestSummary_UnstructuredNeverEmpty(t *testing.T) {
	raw := strings.Repeat("x", 400) // single long line, no structure

	result := Summary(raw)

	if len(result.KeyPoints) == 0 {
		t.Fatal("key points must never be empty")
	}
	if len(result.Quotes) == 0 {
		t.Fatal("quotes must never be empty")
	}
	if result.KeyPoints[0] != types.PlaceholderKeyPoint {
		t.Errorf("expected placeholder key point, got %q", result.KeyPoints[0])
	}
	if result.Quotes[0] != types.PlaceholderQuote {
		t.Errorf("expected placeholder quote, got %q", result.Quotes[0])
	}
	if result.Sentiment != types.SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral default", result.Sentiment)
	}
}

func TestSummary_TruncationIdempotent(t *testing.T) {
	long := "Key Points:\n- " + strings.Repeat("a", 150)

	first := Summary(long)
	if len(first.KeyPoints[0]) > KeyPointMaxLen {
		t.Fatalf("key point longer than cap: %d", len(first.KeyPoints[0]))
	}

	second := Summary("Key Points:\n- " + first.KeyPoints[0])
	if second.KeyPoints[0] != first.KeyPoints[0] {
		t.Errorf("re-parsing truncated point changed it: %q vs %q", second.KeyPoints[0], first.KeyPoints[0])
	}
}

func TestSummary_QuoteTruncation(t *testing.T) {
	raw := "Quotes:\n- \"" + strings.Repeat("b", 120) + "\""
	result := Summary(raw)
	if len(result.Quotes[0]) > QuoteMaxLen {
		t.Errorf("quote longer than cap: %d", len(result.Quotes[0]))
	}
}

func TestSummary_PointCap(t *testing.T) {
	raw := `Key Points:
- first extracted point here
- second extracted point here
- third extracted point here
- fourth should be dropped
- fifth should be dropped`

	result := Summary(raw)
	if len(result.KeyPoints) != MaxKeyPoints {
		t.Errorf("expected %d key points, got %d", MaxKeyPoints, len(result.KeyPoints))
	}
}

func TestSummary_FallbackPass(t *testing.T) {
	raw := `This thread covers the new database migration tooling.
Replies mostly focus on rollback safety under load.
A few users report smooth upgrades in production.
Shorter remarks about the docs quality follow here.
One more line that lands within the accepted window.`

	result := Summary(raw)

	if result.KeyPoints[0] != "This thread covers the new database migration tooling." {
		t.Errorf("unexpected first key point: %q", result.KeyPoints[0])
	}
	if len(result.KeyPoints) != MaxKeyPoints {
		t.Fatalf("expected %d key points from fallback, got %d", MaxKeyPoints, len(result.KeyPoints))
	}
	if len(result.Quotes) != MaxQuotes {
		t.Fatalf("expected %d quotes from fallback, got %d", MaxQuotes, len(result.Quotes))
	}
	if result.Quotes[0] != "Shorter remarks about the docs quality follow here." {
		t.Errorf("unexpected first quote: %q", result.Quotes[0])
	}
}

func TestSummary_NegativeSentiment(t *testing.T) {
	result := Summary("Sentiment: strongly negative overall")
	if result.Sentiment != types.SentimentNegative {
		t.Errorf("sentiment = %q, want negative", result.Sentiment)
	}
}

func TestSummary_NumberedAndStarBullets(t *testing.T) {
	raw := `Main Points:
1) Numbered with paren style works.
* Star bullets work as well here.`

	result := Summary(raw)
	if result.KeyPoints[0] != "Numbered with paren style works." {
		t.Errorf("paren-numbered point not stripped: %q", result.KeyPoints[0])
	}
	if result.KeyPoints[1] != "Star bullets work as well here." {
		t.Errorf("star bullet not stripped: %q", result.KeyPoints[1])
	}
}
