package questionnaire

import (
	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/risk"
)

// Result is the questionnaire-only scoring outcome.
type Result struct {
	TotalScore         int `json:"totalScore"`
	CriticalItemsCount int `json:"criticalItemsCount"`
	// PreliminaryLevel is informational; the persisted level always comes from fusion.
	PreliminaryLevel risk.Level `json:"preliminaryLevel"`
}

// Score reduces responses into a total, a critical-item count and a preliminary tier.
// A partial response set yields a lower-bound score.
func Score(def Definition, responses []Response) Result {
	critical := make(map[string]bool)
	for _, q := range def.Questions() {
		if q.IsCritical {
			critical[q.ID] = true
		}
	}

	var res Result
	for _, r := range responses {
		res.TotalScore += r.Points
		if r.Points > 0 && critical[r.QuestionID] {
			res.CriticalItemsCount++
		}
	}

	t := def.RiskThresholds
	switch {
	case res.TotalScore >= t.High:
		res.PreliminaryLevel = risk.LevelHigh
	case res.TotalScore >= t.Medium, res.CriticalItemsCount >= def.CriticalItemsThreshold:
		res.PreliminaryLevel = risk.LevelMedium
	default:
		res.PreliminaryLevel = risk.LevelLow
	}
	return res
}

// Resolve builds a response from a question id and chosen answer value.
func (d Definition) Resolve(questionID, answer string) (Response, error) {
	q, ok := d.Question(questionID)
	if !ok {
		return Response{}, eris.Wrapf(ErrInvalidResponse, "unknown question %s", questionID)
	}
	for _, o := range q.Options {
		if o.Value == answer {
			return Response{QuestionID: q.ID, Answer: o.Value, Points: o.Points}, nil
		}
	}
	return Response{}, eris.Wrapf(ErrInvalidResponse, "question %s has no answer %q", questionID, answer)
}

// ValidateResponses checks every response against this definition.
func (d Definition) ValidateResponses(responses []Response) error {
	seen := make(map[string]bool, len(responses))
	for _, r := range responses {
		want, err := d.Resolve(r.QuestionID, r.Answer)
		if err != nil {
			return err
		}
		if want.Points != r.Points {
			return eris.Wrapf(ErrInvalidResponse, "question %s answer %q is worth %d points, got %d",
				r.QuestionID, r.Answer, want.Points, r.Points)
		}
		if seen[r.QuestionID] {
			return eris.Wrapf(ErrInvalidResponse, "question %s answered twice", r.QuestionID)
		}
		seen[r.QuestionID] = true
	}
	return nil
}
