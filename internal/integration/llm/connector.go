package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// selectorTemperature keeps the title selector near-deterministic: its output
// is parsed, not shown to the user. A literal zero would be dropped by the
// client's omitempty marshalling, so the lowest settable value is used.
const selectorTemperature float32 = 0.1

type Connector struct {
	config config.ModelConnectorConfig
	client *openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.ModelConnectorConfig,
	logger *zap.Logger,
) *Connector {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}

	return &Connector{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// SelectTitles asks the model which material titles fit the current message.
// The raw completion is returned as-is, parsing happens at the caller.
func (c *Connector) SelectTitles(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "selecting material titles via model", zap.Int("message_count", len(messages)))

	content, err := c.createCompletion(ctx, messages, selectorTemperature)
	if err != nil {
		return "", fmt.Errorf("select titles failed: %w", err)
	}

	ctxzap.Info(ctx, "titles selected", zap.Int("completion_length", len(content)))

	return content, nil
}

// GenerateReply asks the model for the final chat reply, returned verbatim.
func (c *Connector) GenerateReply(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "generating chat reply via model", zap.Int("message_count", len(messages)))

	content, err := c.createCompletion(ctx, messages, 0)
	if err != nil {
		return "", fmt.Errorf("generate reply failed: %w", err)
	}

	ctxzap.Info(ctx, "reply generated", zap.Int("result_length", len(content)))

	return content, nil
}

// createCompletion runs one chat completion. A zero temperature leaves the
// endpoint default in place.
func (c *Connector) createCompletion(ctx context.Context, messages []entity.ChatMessage, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Name,
		Messages:    toOpenAIMessages(messages),
		Temperature: temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in model response")
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []entity.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
