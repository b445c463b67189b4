package videoanalysis

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/bryanwahyu/devscreen/internal/domain/ai"
	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// --- VideoSource Mock ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Open(ctx context.Context, ref screening.VideoReference) (screening.Content, error) {
	args := m.Called(ctx, ref.ID)
	return args.Get(0).(screening.Content), args.Error(1)
}

func media(s string) screening.Content {
	return screening.Content{Body: io.NopCloser(strings.NewReader(s)), MIMEType: "video/mp4", Size: int64(len(s))}
}

// --- AI Client Mock ---

type mockClient struct {
	mock.Mock
}

func (m *mockClient) AnalyzeVideo(ctx context.Context, in ai.VideoInput) (string, error) {
	args := m.Called(ctx, in.VideoID)
	return args.String(0), args.Error(1)
}

// hangingClient never answers on its own.
type hangingClient struct {
	release chan struct{}
}

func (h *hangingClient) AnalyzeVideo(ctx context.Context, in ai.VideoInput) (string, error) {
	<-h.release
	return "", context.DeadlineExceeded
}

// barrierClient answers only once every expected call has arrived,
// so it deadlocks unless the calls overlap.
type barrierClient struct {
	wg    *sync.WaitGroup
	reply string
}

func (b *barrierClient) AnalyzeVideo(ctx context.Context, in ai.VideoInput) (string, error) {
	b.wg.Done()
	arrived := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(arrived)
	}()
	select {
	case <-arrived:
		return b.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
