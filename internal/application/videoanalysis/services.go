package videoanalysis

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/devscreen/internal/domain/ai"
	"github.com/bryanwahyu/devscreen/internal/domain/risk"
	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// DefaultTimeout bounds a single video analysis.
const DefaultTimeout = 30 * time.Second

type Service struct {
	Source screening.VideoSource
	Client ai.Client
	// Timeout applies per video; zero means DefaultTimeout.
	Timeout time.Duration
	// Concurrency caps in-flight analyses; zero means one goroutine per video.
	Concurrency int
}

func NewService(source screening.VideoSource, client ai.Client, timeout time.Duration) *Service {
	return &Service{Source: source, Client: client, Timeout: timeout}
}

// Analyze runs every usable video concurrently and returns the successful
// analyses in input order. Individual failures are logged and skipped; only
// cancellation of ctx fails the whole call.
func (s *Service) Analyze(ctx context.Context, videos []screening.VideoReference, ageMonths int) ([]risk.VideoAnalysis, error) {
	todo := Select(videos)
	if len(todo) == 0 {
		return []risk.VideoAnalysis{}, nil
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	slots := make([]*risk.VideoAnalysis, len(todo))
	var g errgroup.Group
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, ref := range todo {
		g.Go(func() error {
			log := zap.L().With(zap.String("video_id", ref.ID), zap.String("category", string(ref.Category)))

			taskCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res, err := s.bounded(taskCtx, ref, ageMonths)
			if err != nil {
				log.Warn("video analysis failed", zap.Error(err))
				return nil // one bad video never sinks the submission
			}
			slots[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "videoanalysis: cancelled")
	}

	out := make([]risk.VideoAnalysis, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	zap.L().Info("video analysis complete",
		zap.Int("requested", len(todo)),
		zap.Int("succeeded", len(out)),
	)
	return out, nil
}

type outcome struct {
	res risk.VideoAnalysis
	err error
}

// bounded returns when ctx expires even if the source or client ignores it.
func (s *Service) bounded(ctx context.Context, ref screening.VideoReference, ageMonths int) (risk.VideoAnalysis, error) {
	done := make(chan outcome, 1)
	go func() {
		res, err := s.analyzeOne(ctx, ref, ageMonths)
		done <- outcome{res, err}
	}()
	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return risk.VideoAnalysis{}, eris.Wrapf(ctx.Err(), "video %s", ref.ID)
	}
}

func (s *Service) analyzeOne(ctx context.Context, ref screening.VideoReference, ageMonths int) (risk.VideoAnalysis, error) {
	content, err := s.Source.Open(ctx, ref)
	if err != nil {
		return risk.VideoAnalysis{}, eris.Wrapf(err, "fetch video %s", ref.ID)
	}
	defer content.Body.Close()

	raw, err := s.Client.AnalyzeVideo(ctx, ai.VideoInput{
		VideoID:   ref.ID,
		Category:  string(ref.Category),
		AgeMonths: ageMonths,
		MIMEType:  content.MIMEType,
		Media:     content.Body,
	})
	if err != nil {
		return risk.VideoAnalysis{}, eris.Wrapf(err, "analyze video %s", ref.ID)
	}

	ind, summary, observations, err := Parse(raw)
	if err != nil {
		return risk.VideoAnalysis{}, eris.Wrapf(err, "video %s", ref.ID)
	}
	if observations == nil {
		observations = []string{}
	}
	return risk.VideoAnalysis{
		VideoID:      ref.ID,
		Category:     string(ref.Category),
		Indicators:   ind,
		Summary:      summary,
		Observations: observations,
	}, nil
}

// Select drops references without a URL and keeps the most recent upload per
// category, preserving first-seen category order.
func Select(videos []screening.VideoReference) []screening.VideoReference {
	idx := make(map[screening.VideoCategory]int)
	var out []screening.VideoReference
	for _, v := range videos {
		if v.URL == "" {
			continue
		}
		if i, ok := idx[v.Category]; ok {
			if !v.UploadedAt.Before(out[i].UploadedAt) {
				out[i] = v
			}
			continue
		}
		idx[v.Category] = len(out)
		out = append(out, v)
	}
	return out
}
