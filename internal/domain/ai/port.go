package ai

import (
	"context"
	"io"
)

// VideoInput is what the model sees for one recording.
type VideoInput struct {
	VideoID   string
	Category  string
	AgeMonths int
	MIMEType  string
	Media     io.Reader
}

type Client interface {
	// AnalyzeVideo returns the model's raw text; parsing is the caller's job.
	AnalyzeVideo(ctx context.Context, in VideoInput) (string, error)
}
