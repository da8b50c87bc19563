// Package agent summarizes order items with Gemini, for memos shorter than a
// list of product titles.
package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// MaxSummaryLength is the longest summary returned, in characters.
const MaxSummaryLength = 100

// NewSummarizer returns the expert writing memo summaries.
func NewSummarizer() *Expert {
	return &Expert{
		Name:      "Summarizer",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You write the memo of a budget transaction paying for an online order.
			You receive the product titles of the order, one per line.
			Answer with a single short line (at most 10 words) saying what was bought,
			in plain text, without quotes, prices or brand marketing.
			`}}},
		},
	}
}

// NewClient returns a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("cannot initialize Gemini's client: %w", err)
	}
	return client, nil
}

// Summarize asks e for a one line summary of items.
func Summarize(ctx context.Context, e *Expert, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to summarize")
	}
	content, err := e.Ask(ctx, &genai.Part{Text: strings.Join(items, "\n")})
	if err != nil {
		return "", fmt.Errorf("cannot summarize items: %w", err)
	}
	summary := cleanSummary(content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("empty summary from expert %s", e.Name)
	}
	return summary, nil
}

// cleanSummary keeps the first non empty line, unquoted and shortened.
func cleanSummary(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`+"`")
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > MaxSummaryLength {
			line = string([]rune(line)[:MaxSummaryLength-3]) + "..."
		}
		return line
	}
	return ""
}
