package analysis

import (
	"math"

	"github.com/jonreiter/govader"

	"docedit/internal/model"
)

// VADER compound thresholds for labeling, per the reference implementation.
const sentimentNeutralBand = 0.05

// sentimentOf scores text with the shared VADER analyzer. The label follows
// the standard compound cutoffs; confidence is the dominant polarity
// proportion.
func sentimentOf(analyzer *govader.SentimentIntensityAnalyzer, text string) *model.Sentiment {
	scores := analyzer.PolarityScores(text)

	label := "neutral"
	switch {
	case scores.Compound >= sentimentNeutralBand:
		label = "positive"
	case scores.Compound <= -sentimentNeutralBand:
		label = "negative"
	}

	confidence := scores.Neutral
	switch label {
	case "positive":
		confidence = scores.Positive
	case "negative":
		confidence = scores.Negative
	}

	return &model.Sentiment{
		Label:      label,
		Score:      round2(scores.Compound),
		Confidence: round2(math.Abs(confidence)),
	}
}
