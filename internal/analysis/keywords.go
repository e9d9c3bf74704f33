package analysis

import (
	"sort"
	"strings"

	"docedit/internal/model"
)

// english stopwords, matching the NLTK list the original editor filtered with.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`i me my myself we our ours ourselves you
		you're you've you'll you'd your yours yourself yourselves he him his
		himself she she's her hers herself it it's its itself they them their
		theirs themselves what which who whom this that that'll these those am
		is are was were be been being have has had having do does did doing a
		an the and but if or because as until while of at by for with about
		against between into through during before after above below to from
		up down in out on off over under again further then once here there
		when where why how all any both each few more most other some such no
		nor not only own same so than too very s t can will just don don't
		should should've now d ll m o re ve y ain aren aren't couldn couldn't
		didn didn't doesn doesn't hadn hadn't hasn hasn't haven haven't isn
		isn't ma mightn mightn't mustn mustn't needn needn't shan shan't
		shouldn shouldn't wasn wasn't weren weren't won won't wouldn wouldn't`) {
		stopwords[w] = struct{}{}
	}
}

// Keywords returns the ranked keyword list: case-normalized, stopword
// filtered, ordered by frequency descending then term ascending so the
// ranking is deterministic. Weight is frequency relative to the top term.
// limit <= 0 returns all keywords.
func Keywords(text string, limit int) []model.Keyword {
	freq := map[string]int{}
	for _, w := range Words(text) {
		term := strings.ToLower(w)
		if _, skip := stopwords[term]; skip {
			continue
		}
		freq[term]++
	}
	if len(freq) == 0 {
		return nil
	}

	out := make([]model.Keyword, 0, len(freq))
	for term, n := range freq {
		out = append(out, model.Keyword{Term: term, Frequency: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Term < out[j].Term
	})

	top := float64(out[0].Frequency)
	for i := range out {
		out[i].Weight = round2(float64(out[i].Frequency) / top)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
