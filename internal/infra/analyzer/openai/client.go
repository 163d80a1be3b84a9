package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	domain "github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/analyzer"
	"github.com/verilens/verilens/internal/infra/analyzer/prompt"
)

const maxTokens = 2048

// Client asks a chat model for an authenticity verdict. It satisfies the same
// analyzer port as the demo generator, so swapping it in never touches the
// sharing flow.
type Client struct {
	*openai.Client
	Model string
	now   func() time.Time
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, now: time.Now}
}

func (c *Client) Analyze(ctx context.Context, req analyzer.Request) (*domain.Analysis, error) {
	model := c.Model
	if model == "" {
		model = "o3-2025-04-16"
	}
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(req.FileName, req.FileType, req.FileHash)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		chatReq.MaxCompletionTokens = maxTokens
	} else {
		chatReq.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", analyzer.ErrMalformedResponse)
	}

	var a domain.Analysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}

	// The model fills the verdict fields; identity and timing stay ours.
	a.ID = domain.AnalysisID(uuid.New().String())
	a.FileName = req.FileName
	a.FileType = domain.FileType(req.FileType)
	a.FileHash = req.FileHash
	a.CreatedAt = c.now()

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}
	return &a, nil
}
