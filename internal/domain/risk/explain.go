package risk

import (
	"fmt"
	"strings"
)

// Per-indicator cutoffs used by the explanation text.
const (
	concernCutoff  = 4
	strengthCutoff = 7
)

type phrasing struct {
	key      Indicator
	concern  string
	strength string // empty: never reported as a strength
}

var indicatorPhrases = []phrasing{
	{EyeContact, "limited eye contact", "good eye contact"},
	{ResponseToName, "limited response to name", "responsive to name"},
	{SocialEngagement, "reduced social engagement", "good social engagement"},
	{RepetitiveMovements, "presence of repetitive movements", ""},
	{PointingGesturing, "limited pointing or gesturing", "uses pointing and gestures"},
}

// Explain builds the deterministic explanation attached to an assessment.
func Explain(score, maxScore int, ind Indicators, level Level) string {
	var lines []string

	q := QuestionnaireConcern(score, maxScore)
	switch {
	case q >= HighThreshold:
		lines = append(lines, fmt.Sprintf("Questionnaire responses indicated significant areas of concern (score: %d/%d).", score, maxScore))
	case q >= MediumThreshold:
		lines = append(lines, fmt.Sprintf("Questionnaire responses showed some areas to monitor (score: %d/%d).", score, maxScore))
	default:
		lines = append(lines, fmt.Sprintf("Questionnaire responses were mostly typical (score: %d/%d).", score, maxScore))
	}

	if len(ind) > 0 {
		var concerns, strengths []string
		for _, p := range indicatorPhrases {
			v, ok := ind[p.key]
			if !ok {
				continue
			}
			if v <= concernCutoff {
				concerns = append(concerns, p.concern)
			} else if v >= strengthCutoff && p.strength != "" {
				strengths = append(strengths, p.strength)
			}
		}
		if len(concerns) > 0 {
			lines = append(lines, "Video analysis detected: "+strings.Join(concerns, ", ")+".")
		}
		if len(strengths) > 0 {
			lines = append(lines, "Positive indicators observed: "+strings.Join(strengths, ", ")+".")
		}
	} else {
		lines = append(lines, "No video was provided for analysis.")
	}

	switch level {
	case LevelHigh:
		lines = append(lines, "Combined assessment suggests further professional evaluation is recommended.")
	case LevelMedium:
		lines = append(lines, "Combined assessment suggests continued monitoring and discussion with your pediatrician.")
	default:
		lines = append(lines, "Combined assessment suggests typical developmental patterns.")
	}

	return strings.Join(lines, " ")
}
