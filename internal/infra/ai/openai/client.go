package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/devscreen/internal/domain/ai"
	"github.com/bryanwahyu/devscreen/internal/infra/ai/prompt"
)

const maxTokens = 2048

const defaultModel = "gemini-2.5-flash"

// defaultHTTPTimeout bounds a request when the caller passes no timeout.
const defaultHTTPTimeout = 2 * time.Minute

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a chat client. An empty baseURL keeps the OpenAI default;
// point it at an OpenAI-compatible endpoint (e.g. Gemini) to switch providers.
// timeout caps each HTTP exchange; zero means defaultHTTPTimeout.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) AnalyzeVideo(ctx context.Context, in ai.VideoInput) (string, error) {
	if in.Media == nil {
		return "", eris.New("openai: video input has no media")
	}
	raw, err := io.ReadAll(in.Media)
	if err != nil {
		return "", eris.Wrapf(err, "openai: read video %s", in.VideoID)
	}
	mime := in.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)

	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt.GetUserPrompt(in.Category, in.AgeMonths),
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuota(err) {
			return "", eris.Wrapf(ai.ErrQuotaExceeded, "openai: video %s", in.VideoID)
		}
		return "", eris.Wrap(err, "openai: create chat completion")
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", eris.Wrapf(ai.ErrEmptyResponse, "openai: video %s", in.VideoID)
	}
	return resp.Choices[0].Message.Content, nil
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}
