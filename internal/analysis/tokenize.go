package analysis

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
)

// Words segments text per UAX #29 and keeps only tokens containing a letter
// or digit, dropping punctuation and whitespace segments.
func Words(text string) []string {
	var out []string
	tokens := words.FromString(text)
	for tokens.Next() {
		tok := tokens.Value()
		if isWordToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Sentences segments text per UAX #29, trimming whitespace and dropping empty
// segments.
func Sentences(text string) []string {
	var out []string
	segs := sentences.FromString(text)
	for segs.Next() {
		s := strings.TrimSpace(segs.Value())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstWordsSpan returns the prefix of text that contains the first n word
// tokens, or the whole text when it has fewer. The word segmenter partitions
// the input, so accumulating segment lengths recovers byte offsets.
func firstWordsSpan(text string, n int) string {
	end := 0
	count := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		tok := tokens.Value()
		end += len(tok)
		if isWordToken(tok) {
			count++
			if count == n {
				return text[:end]
			}
		}
	}
	return text
}

func isWordToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// countSyllables estimates English syllables by counting vowel groups, with
// the usual silent-e adjustment. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// letterDigitCount counts letters and digits, the character base used by the
// ARI and Coleman-Liau formulas.
func letterDigitCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
