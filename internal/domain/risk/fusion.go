package risk

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
)

// Fixed blend weights applied when both signals are available.
const (
	QuestionnaireWeight = 0.6
	VideoWeight         = 0.4
)

// Combined score cutoffs, inclusive.
const (
	HighThreshold   = 60
	MediumThreshold = 35
)

// ErrInvalidInput signals numeric input that upstream validation should have rejected.
var ErrInvalidInput = eris.New("risk: invalid input")

// Input carries everything the fusion step needs.
type Input struct {
	QuestionnaireScore int
	// MaxScore is only used to normalize; thresholds are not derived from it.
	MaxScore   int
	Indicators Indicators
	Analyses   []VideoAnalysis
	// Recommendations, when non-empty, replace the tier defaults verbatim.
	Recommendations []string
}

// QuestionnaireConcern maps a raw score onto the 0-100 concern scale.
// Scores above max overshoot 100; callers must not submit them.
func QuestionnaireConcern(score, maxScore int) float64 {
	return float64(score) / float64(maxScore) * 100
}

// VideoConcern inverts the mean typical score into a 0-100 concern value.
// It reports false when there is no video signal.
func VideoConcern(ind Indicators) (float64, bool) {
	if len(ind) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range ind {
		sum += v
	}
	avgTypical := sum / float64(len(ind))
	return (10 - avgTypical) / 10 * 100, true
}

// Classify maps a combined score to its tier. It is the only rule that
// decides the persisted level.
func Classify(combined int) Level {
	switch {
	case combined >= HighThreshold:
		return LevelHigh
	case combined >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Fuse blends the questionnaire and video signals into a final assessment.
func Fuse(in Input, now time.Time) (Assessment, error) {
	if err := validate(in); err != nil {
		return Assessment{}, err
	}

	indicators := in.Indicators
	if len(indicators) == 0 {
		indicators = nil
	}

	qConcern := QuestionnaireConcern(in.QuestionnaireScore, in.MaxScore)
	breakdown := Breakdown{QuestionnaireConcern: round(qConcern)}

	var combined float64
	if vConcern, ok := VideoConcern(indicators); ok {
		combined = qConcern*QuestionnaireWeight + vConcern*VideoWeight
		v := round(vConcern)
		breakdown.VideoConcern = &v
		breakdown.QuestionnaireWeight = QuestionnaireWeight
		breakdown.VideoWeight = VideoWeight
	} else {
		combined = qConcern
		breakdown.QuestionnaireWeight = 1.0
		breakdown.VideoWeight = 0
	}

	// The 18-24 month questionnaire can exceed its declared max; keep the
	// persisted score on the 0-100 scale while the breakdown shows the overshoot.
	combinedScore := min(max(round(combined), 0), 100)
	breakdown.CombinedScore = combinedScore
	level := Classify(combinedScore)

	recs := in.Recommendations
	if len(recs) == 0 {
		recs = DefaultRecommendations(level)
	}

	analyses := in.Analyses
	if analyses == nil {
		analyses = []VideoAnalysis{}
	}

	return Assessment{
		Level:           level,
		Score:           in.QuestionnaireScore,
		CombinedScore:   combinedScore,
		VideoIndicators: indicators,
		VideoAnalyses:   analyses,
		Explanation:     Explain(in.QuestionnaireScore, in.MaxScore, indicators, level),
		Breakdown:       breakdown,
		Recommendations: append([]string(nil), recs...),
		GeneratedAt:     now.UTC(),
	}, nil
}

func validate(in Input) error {
	if in.MaxScore <= 0 {
		return eris.Wrapf(ErrInvalidInput, "max score must be positive, got %d", in.MaxScore)
	}
	if in.QuestionnaireScore < 0 {
		return eris.Wrapf(ErrInvalidInput, "questionnaire score must not be negative, got %d", in.QuestionnaireScore)
	}
	for key, v := range in.Indicators {
		if math.IsNaN(v) || v < 0 || v > 10 {
			return eris.Wrapf(ErrInvalidInput, "indicator %s out of range: %v", key, v)
		}
	}
	return nil
}

func round(v float64) int {
	return int(math.Round(v))
}
