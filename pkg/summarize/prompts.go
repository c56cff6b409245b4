package summarize

import (
	"fmt"
	"strings"

	"github.com/threadwise/threadwise/pkg/types"
)

const summaryPromptTemplate = `Summarize this social media thread.

Format your response EXACTLY like this:

Key Points:
1. <first key point>
2. <second key point>
3. <third key point>

Notable Quotes:
- "<first short quote from the thread>"
- "<second short quote from the thread>"

Sentiment: <positive, negative or neutral>
Reading time: <whole minutes> minutes

Keep each key point under 100 characters and each quote under 80 characters.

Thread:
%s`

const replyPromptTemplate = `Write a reply to this social media thread. One or two sentences, friendly and specific, at most 120 characters. Respond with ONLY the reply text, nothing else.

Thread:
%s

Summary of the thread:
%s`

// buildSummaryPrompt builds the summarization prompt for a thread.
func buildSummaryPrompt(thread types.ThreadContent) string {
	return fmt.Sprintf(summaryPromptTemplate, thread.Text)
}

// buildReplyPrompt builds the reply prompt from a thread and its summary.
func buildReplyPrompt(thread types.ThreadContent, summary types.SummaryResult) string {
	return fmt.Sprintf(replyPromptTemplate, thread.Text, strings.Join(summary.KeyPoints, "\n"))
}
