package assessment

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/devscreen/internal/application"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	"github.com/bryanwahyu/devscreen/internal/domain/risk"
	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// VideoAnalyzer produces per-video analyses; failures are its own concern.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, videos []screening.VideoReference, ageMonths int) ([]risk.VideoAnalysis, error)
}

// Request is one caregiver submission.
type Request struct {
	DateOfBirth     time.Time
	Responses       []questionnaire.Response
	Videos          []screening.VideoReference
	Recommendations []string
	// Now is the evaluation instant; zero means the engine clock. Callers that
	// already picked a questionnaire pass their instant so the bracket matches.
	Now time.Time
}

// Result bundles the assessment with the context it was computed in.
type Result struct {
	Assessment    risk.Assessment
	Definition    questionnaire.Definition
	AgeMonths     int
	Bracket       questionnaire.Bracket
	Questionnaire questionnaire.Result
}

// Engine runs classify, score, analyze, aggregate and fuse in that order.
// It keeps no state between calls.
type Engine struct {
	Catalog  *questionnaire.Catalog
	Analyzer VideoAnalyzer
	Clock    application.Clock
}

func (e *Engine) Assess(ctx context.Context, req Request) (Result, error) {
	now := req.Now
	if now.IsZero() {
		now = e.now()
	}
	months := questionnaire.AgeInMonths(req.DateOfBirth, now)
	bracket := questionnaire.BracketForMonths(months)

	def, err := e.Catalog.Lookup(bracket)
	if err != nil {
		return Result{}, err
	}

	scored := questionnaire.Score(def, req.Responses)

	analyses := []risk.VideoAnalysis{}
	if e.Analyzer != nil && hasURL(req.Videos) {
		analyses, err = e.Analyzer.Analyze(ctx, req.Videos, months)
		if err != nil {
			return Result{}, eris.Wrap(err, "assessment: analyze videos")
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, eris.Wrap(err, "assessment: cancelled")
	}

	a, err := risk.Fuse(risk.Input{
		QuestionnaireScore: scored.TotalScore,
		MaxScore:           def.MaxPossibleScore,
		Indicators:         risk.Aggregate(analyses),
		Analyses:           analyses,
		Recommendations:    req.Recommendations,
	}, now)
	if err != nil {
		return Result{}, eris.Wrap(err, "assessment: fuse")
	}

	zap.L().Debug("assessment computed",
		zap.String("bracket", string(bracket)),
		zap.Int("score", scored.TotalScore),
		zap.Int("combined", a.CombinedScore),
		zap.String("level", string(a.Level)),
		zap.Int("videos_analysed", len(analyses)),
	)

	return Result{
		Assessment:    a,
		Definition:    def,
		AgeMonths:     months,
		Bracket:       bracket,
		Questionnaire: scored,
	}, nil
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func hasURL(videos []screening.VideoReference) bool {
	for _, v := range videos {
		if v.URL != "" {
			return true
		}
	}
	return false
}
