package analysis

import (
	"regexp"
	"strings"
)

// Reference sections add citation noise that skews readability scores, so
// they are stripped before any metric runs.
var referenceHeader = regexp.MustCompile(`(?i)^\s*(?:references?|bibliography|citations?|works cited|sources?|references? cited)[\s:]*$`)

// numberedCitation matches lines like "[12] ...", "12. ..." or "(12) ...".
var numberedCitation = regexp.MustCompile(`^\s*(?:\[\d+\]|\d+\.|\(\d+\))\s+`)

// StripReferences returns text with the trailing references/bibliography
// section removed. A section starts either at a recognized header line or at
// a run of three consecutive numbered-citation lines.
func StripReferences(text string) string {
	lines := strings.Split(text, "\n")
	var main []string

	for i, line := range lines {
		if referenceHeader.MatchString(strings.TrimSpace(line)) {
			break
		}
		if i > 0 && numberedCitation.MatchString(line) {
			run := lines[i:min(i+3, len(lines))]
			allCitations := true
			for _, l := range run {
				if !numberedCitation.MatchString(l) {
					allCitations = false
					break
				}
			}
			if allCitations {
				break
			}
		}
		main = append(main, line)
	}

	return strings.Join(main, "\n")
}
