package analysis

import (
	"fmt"
	"math"

	"docedit/internal/model"
)

// Metric names as presented to the UI.
const (
	MetricFleschReadingEase = "Flesch Reading Ease"
	MetricSMOGIndex         = "SMOG Index"
	MetricGunningFog        = "Gunning Fog Index"
	MetricARI               = "Automated Readability Index"
	MetricColemanLiau       = "Coleman-Liau Index"
	MetricLinsearWrite      = "Linsear Write Formula"
	MetricTextStandard      = "Text Standard"
	MetricDifficultWords    = "Difficult Words"
)

// difficultyBand holds the Easy/Hard thresholds for one metric. For Flesch
// Reading Ease higher is easier; for the grade-level indices lower is easier.
type difficultyBand struct {
	easy         float64
	hard         float64
	higherIsEasy bool
}

var bands = map[string]difficultyBand{
	MetricFleschReadingEase: {easy: 60, hard: 30, higherIsEasy: true},
	MetricSMOGIndex:         {easy: 7, hard: 12},
	MetricGunningFog:        {easy: 8, hard: 12},
	MetricARI:               {easy: 8, hard: 12},
	MetricColemanLiau:       {easy: 8, hard: 12},
	MetricLinsearWrite:      {easy: 10, hard: 14},
	MetricTextStandard:      {easy: 8, hard: 12},
}

var fleschDescriptions = map[string]string{
	"Easy":       "Easily understood by a 13-15 year-old",
	"Acceptable": "Suitable for academic writing",
	"Hard":       "Very difficult to read",
}

// textStats caches the counts every formula shares.
type textStats struct {
	words        []string
	sentences    int
	syllables    int
	polysyllable int // words with 3+ syllables
	chars        int // letters and digits
}

func gatherStats(text string) textStats {
	st := textStats{
		words:     Words(text),
		sentences: len(Sentences(text)),
		chars:     letterDigitCount(text),
	}
	for _, w := range st.words {
		sy := countSyllables(w)
		st.syllables += sy
		if sy >= 3 {
			st.polysyllable++
		}
	}
	return st
}

// Readability computes the full metric map with difficulty bands. Scores are
// rounded to two decimals so repeated runs over the same text are identical.
func Readability(text string) map[string]model.ReadabilityScore {
	st := gatherStats(text)
	if len(st.words) == 0 || st.sentences == 0 {
		return nil
	}

	w := float64(len(st.words))
	s := float64(st.sentences)
	sy := float64(st.syllables)
	poly := float64(st.polysyllable)
	chars := float64(st.chars)

	scores := map[string]float64{
		MetricFleschReadingEase: 206.835 - 1.015*(w/s) - 84.6*(sy/w),
		MetricGunningFog:        0.4 * ((w / s) + 100*(poly/w)),
		MetricARI:               4.71*(chars/w) + 0.5*(w/s) - 21.43,
		MetricColemanLiau:       0.0588*(chars/w*100) - 0.296*(s/w*100) - 15.8,
		MetricLinsearWrite:      linsearWrite(text, st),
		MetricDifficultWords:    poly,
	}
	// SMOG needs a minimum sample to be meaningful.
	if st.sentences >= 3 {
		scores[MetricSMOGIndex] = 1.043*math.Sqrt(poly*(30/s)) + 3.1291
	}

	out := make(map[string]model.ReadabilityScore, len(scores))
	for metric, score := range scores {
		score = round2(score)
		rs := model.ReadabilityScore{Score: score}
		if band, ok := bands[metric]; ok {
			rs.Difficulty = band.classify(score)
			if metric == MetricFleschReadingEase {
				rs.Description = fleschDescriptions[rs.Difficulty]
			}
		}
		out[metric] = rs
	}

	grade, desc := textStandard(scores)
	out[MetricTextStandard] = model.ReadabilityScore{
		Score:       grade,
		Difficulty:  bands[MetricTextStandard].classify(grade),
		Description: desc,
	}
	return out
}

func (b difficultyBand) classify(score float64) string {
	if b.higherIsEasy {
		switch {
		case score > b.easy:
			return "Easy"
		case score < b.hard:
			return "Hard"
		}
		return "Acceptable"
	}
	switch {
	case score < b.easy:
		return "Easy"
	case score > b.hard:
		return "Hard"
	}
	return "Acceptable"
}

// linsearWrite samples the first 100 words: easy words (1-2 syllables) score
// 1, hard words (3+) score 3; the total over the sentences in the sample maps
// to a grade level. Sentences are counted within the sample, not the whole
// document, so long texts do not dilute the score.
func linsearWrite(text string, st textStats) float64 {
	sample := st.words
	sampleSentences := st.sentences
	if len(sample) > 100 {
		sample = sample[:100]
		sampleSentences = len(Sentences(firstWordsSpan(text, 100)))
	}
	if len(sample) == 0 {
		return 0
	}

	points := 0.0
	for _, w := range sample {
		if countSyllables(w) >= 3 {
			points += 3
		} else {
			points++
		}
	}

	sentences := float64(sampleSentences)
	if sentences < 1 {
		sentences = 1
	}
	r := points / sentences
	if r > 20 {
		return r / 2
	}
	return (r - 2) / 2
}

// textStandard takes the consensus of the grade-level indices: each score
// votes for its floor and the next grade up, and the most common grade wins.
// Ties break toward the lower grade.
func textStandard(scores map[string]float64) (float64, string) {
	votes := map[int]int{}
	max := 0
	for _, metric := range []string{
		MetricSMOGIndex,
		MetricGunningFog,
		MetricARI,
		MetricColemanLiau,
		MetricLinsearWrite,
	} {
		s, ok := scores[metric]
		if !ok {
			continue
		}
		g := int(math.Floor(s))
		if g < 0 {
			g = 0
		}
		votes[g]++
		votes[g+1]++
		if g+1 > max {
			max = g + 1
		}
	}

	best, bestCount := 0, 0
	for g := 0; g <= max; g++ {
		if votes[g] > bestCount {
			best, bestCount = g, votes[g]
		}
	}
	low := best - 1
	if low < 0 {
		low = 0
	}
	return float64(best), fmt.Sprintf("%s and %s grade", ordinal(low), ordinal(best))
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
