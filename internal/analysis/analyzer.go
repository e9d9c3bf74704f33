// Package analysis computes readability, syntax, sentiment, and keyword
// metrics over document text. All computations are pure and deterministic:
// the same input always yields the same result.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonreiter/govader"

	"docedit/internal/model"
)

// ErrEmptyText is returned when there is nothing to analyze.
var ErrEmptyText = errors.New("text is empty")

// Analyzer bundles the metric computations. Safe for concurrent use; the
// underlying VADER analyzer is read-only after construction.
type Analyzer struct {
	vader        *govader.SentimentIntensityAnalyzer
	keywordLimit int
}

// NewAnalyzer constructs an Analyzer. keywordLimit caps the ranked keyword
// list; <= 0 means unlimited.
func NewAnalyzer(keywordLimit int) *Analyzer {
	return &Analyzer{
		vader:        govader.NewSentimentIntensityAnalyzer(),
		keywordLimit: keywordLimit,
	}
}

// Analyze computes all metric groups over one document snapshot. The
// reference section is stripped first, as in the editor's sidebar analysis.
// Each group is computed independently: a group that cannot be computed from
// the input records its failure in Errors while the others still populate.
// Only fully empty input is an error.
func (a *Analyzer) Analyze(text string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	main := StripReferences(text)
	if strings.TrimSpace(main) == "" {
		// The whole document was a reference section; analyze it as-is.
		main = text
	}

	res := &model.AnalysisResult{
		Counts: model.TextCounts{
			Words:      len(Words(main)),
			Characters: len([]rune(main)),
			Sentences:  len(Sentences(main)),
			Sections:   sectionWordCounts(main),
		},
	}

	if r := Readability(main); r != nil {
		res.Readability = r
	} else {
		a.recordError(res, "readability", "not enough sentences to score")
	}

	res.Syntax = Syntax(main)
	res.Sentiment = sentimentOf(a.vader, main)

	if kw := Keywords(main, a.keywordLimit); kw != nil {
		res.Keywords = kw
	} else {
		a.recordError(res, "keywords", "no keywords after stopword filtering")
	}

	return res, nil
}

func (a *Analyzer) recordError(res *model.AnalysisResult, group, msg string) {
	if res.Errors == nil {
		res.Errors = map[string]string{}
	}
	res.Errors[group] = msg
}

// sectionWordCounts splits the document on blank lines and counts words per
// section, the data behind the section distribution chart.
func sectionWordCounts(text string) map[string]int {
	sections := strings.Split(text, "\n\n")
	counts := map[string]int{}
	n := 0
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		n++
		counts[fmt.Sprintf("Section %d", n)] = len(Words(section))
	}
	return counts
}
