package visualization

import (
	"bytes"
	"fmt"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"docedit/internal/model"
)

// ReadabilityChart renders the banded readability metrics as a bar chart PNG.
// The count-style metrics are excluded so the grade-level bars share a scale.
func ReadabilityChart(scores map[string]model.ReadabilityScore) ([]byte, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("readability chart: %w", ErrNothingToRender)
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		if name == "Difficult Words" || name == "Flesch Reading Ease" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("readability chart: %w", ErrNothingToRender)
	}

	bars := make([]chart.Value, 0, len(names))
	for _, name := range names {
		bars = append(bars, chart.Value{Label: name, Value: scores[name].Score})
	}

	return renderBars("Readability Metrics", bars)
}

// SectionChart renders per-section word counts, mirroring the editor's
// "word count distribution" figure.
func SectionChart(sections map[string]int) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("section chart: %w", ErrNothingToRender)
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	bars := make([]chart.Value, 0, len(names))
	for _, name := range names {
		bars = append(bars, chart.Value{Label: name, Value: float64(sections[name])})
	}

	return renderBars("Section Word Count Distribution", bars)
}

func renderBars(title string, bars []chart.Value) ([]byte, error) {
	graph := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Width:    1000,
		Height:   500,
		BarWidth: 60,
		Bars:     bars,
	}

	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}
