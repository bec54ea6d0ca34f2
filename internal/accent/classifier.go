package accent

import (
	"fmt"
	"strings"
)

// NoAccentLabel is the label returned when no keyword from any lexicon entry
// appears in the transcript.
const NoAccentLabel = "No accent detected"

const noMatchExplanation = "No accent keywords detected in the transcription."

// Result is the output of the classifier: a label, an integer confidence in
// [0, 100], and a human-readable explanation.
type Result struct {
	Label       string `json:"label"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
}

// Classify scores the transcript against every lexicon entry and returns the
// best-matching accent. Matching is case-insensitive; each keyword contributes
// at most 1 to its label's score regardless of how often it appears.
// Confidence is the winning score as an integer percentage of the total
// score across all labels, rounded down. When nothing matches, the result is
// NoAccentLabel with confidence 0; there is no division by zero and no
// arbitrary label. Ties go to the label listed first in the lexicon.
func Classify(lex Lexicon, text string) Result {
	lowered := strings.ToLower(text)

	counts := make([]int, len(lex))
	total := 0
	for i, entry := range lex {
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, kw) {
				counts[i]++
			}
		}
		total += counts[i]
	}

	if total == 0 {
		return Result{Label: NoAccentLabel, Confidence: 0, Explanation: noMatchExplanation}
	}

	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}

	confidence := counts[best] * 100 / total
	return Result{
		Label:       lex[best].Label,
		Confidence:  confidence,
		Explanation: fmt.Sprintf("Detected keywords suggest %s accent with confidence %d%%.", lex[best].Label, confidence),
	}
}
