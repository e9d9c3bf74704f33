package model

// ReadabilityScore is one readability metric annotated with the difficulty
// band derived from its formula-specific thresholds.
type ReadabilityScore struct {
	Score       float64 `json:"score"`
	Difficulty  string  `json:"difficulty,omitempty"` // Easy, Acceptable, Hard
	Description string  `json:"description,omitempty"`
}

// SyntaxFlag marks a single syntax finding at a character offset.
type SyntaxFlag struct {
	Position int    `json:"position"`
	Message  string `json:"message"`
}

// SyntaxReport summarizes structural checks over the document text.
type SyntaxReport struct {
	AverageSentenceLength float64      `json:"average_sentence_length"`
	ParenthesesBalanced   bool         `json:"parentheses_balanced"`
	QuotesBalanced        bool         `json:"quotes_balanced"`
	Flags                 []SyntaxFlag `json:"flags,omitempty"`
}

// Sentiment carries the VADER label with its compound score and confidence.
type Sentiment struct {
	Label      string  `json:"label"` // positive, neutral, negative
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Keyword is one ranked keyword with its raw frequency and relative weight.
type Keyword struct {
	Term      string  `json:"term"`
	Frequency int     `json:"frequency"`
	Weight    float64 `json:"weight"`
}

// TextCounts holds the basic size metrics shown next to the editor.
type TextCounts struct {
	Words      int            `json:"words"`
	Characters int            `json:"characters"`
	Sentences  int            `json:"sentences"`
	Sections   map[string]int `json:"sections,omitempty"` // section label -> word count
}

// AnalysisResult is a record of computed metrics tied to one Document
// snapshot. Metric groups are computed independently; a failed group leaves
// its field zero and records the failure in Errors, so partial results from
// successful computations are still usable.
type AnalysisResult struct {
	Readability map[string]ReadabilityScore `json:"readability,omitempty"`
	Syntax      *SyntaxReport               `json:"syntax,omitempty"`
	Sentiment   *Sentiment                  `json:"sentiment,omitempty"`
	Keywords    []Keyword                   `json:"keywords,omitempty"`
	Counts      TextCounts                  `json:"counts"`
	Errors      map[string]string           `json:"errors,omitempty"` // metric group -> failure message
}
