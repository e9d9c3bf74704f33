// Package diff tracks edits between the original and enhanced text of a
// document, producing highlight HTML for display and a positional change list
// consumed by the colored exporters.
package diff

import (
	"fmt"
	"html"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change records inserted or replaced text at a character offset in the
// enhanced document.
type Change struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Result bundles the rendered highlight markup with the machine-readable
// change list and summary counts.
type Result struct {
	HTML         string   `json:"html"`
	Changes      []Change `json:"changes"`
	CharsAdded   int      `json:"chars_added"`
	CharsRemoved int      `json:"chars_removed"`
}

// Compare diffs original against enhanced. Insertions are wrapped in green
// spans, deletions in red strike-through spans, mirroring the editor's
// highlight colors. Positions in the change list are offsets into enhanced.
func Compare(original, enhanced string) Result {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, enhanced, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		b       strings.Builder
		changes []Change
		pos     int
		added   int
		removed int
	)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(html.EscapeString(d.Text))
			pos += len(d.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, `<span style="background-color:#e8f5e9;">%s</span>`, html.EscapeString(d.Text))
			changes = append(changes, Change{Position: pos, Text: d.Text})
			pos += len(d.Text)
			added += len(d.Text)
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, `<span style="background-color:#ffebee; text-decoration:line-through;">%s</span>`, html.EscapeString(d.Text))
			removed += len(d.Text)
		}
	}

	return Result{
		HTML:         b.String(),
		Changes:      changes,
		CharsAdded:   added,
		CharsRemoved: removed,
	}
}
