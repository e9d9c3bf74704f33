package analysis

import (
	"fmt"
	"strings"

	"docedit/internal/model"
)

// Sentences longer than this many words get flagged.
const longSentenceWords = 40

// Syntax runs the structural checks: average sentence length, punctuation
// balance, and per-sentence overlength flags with character positions.
func Syntax(text string) *model.SyntaxReport {
	sents := Sentences(text)
	totalWords := len(Words(text))

	avg := 0.0
	if len(sents) > 0 {
		avg = round2(float64(totalWords) / float64(len(sents)))
	}

	report := &model.SyntaxReport{
		AverageSentenceLength: avg,
		ParenthesesBalanced:   strings.Count(text, "(") == strings.Count(text, ")"),
		QuotesBalanced:        strings.Count(text, `"`)%2 == 0,
	}

	pos := 0
	for _, s := range sents {
		at := strings.Index(text[pos:], s)
		if at < 0 {
			at = 0
		}
		start := pos + at
		if n := len(Words(s)); n > longSentenceWords {
			report.Flags = append(report.Flags, model.SyntaxFlag{
				Position: start,
				Message:  fmt.Sprintf("sentence has %d words; consider splitting", n),
			})
		}
		pos = start + len(s)
	}

	if !report.ParenthesesBalanced {
		report.Flags = append(report.Flags, model.SyntaxFlag{Message: "unbalanced parentheses"})
	}
	if !report.QuotesBalanced {
		report.Flags = append(report.Flags, model.SyntaxFlag{Message: "unbalanced double quotes"})
	}

	return report
}
