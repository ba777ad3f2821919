// Package llm wraps the chat model behind a one-method Provider interface
// so the orchestrator and its tests never touch the transport directly.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/careguide-ai/server/internal/engine/model"
	logx "github.com/careguide-ai/server/pkg/logger"
)

// Provider produces one assistant message for a conversation transcript.
// Implementations carry their own tool bindings; callers see tool requests
// only as ToolCalls on the returned message.
type Provider interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}

// GeminiConfig carries what the Gemini-backed provider needs.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   model.ModelConfig
}

// GeminiProvider is the production Provider backed by the Gemini API.
type GeminiProvider struct {
	chat      *gemini.ChatModel
	modelName string
}

// NewGeminiProvider builds the chat model and binds the capability schemas.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, toolInfos []*schema.ToolInfo) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := cfg.Model.Temperature
	maxTokens := cfg.Model.MaxTokens
	chat, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Name,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	if len(toolInfos) > 0 {
		if err := chat.BindTools(toolInfos); err != nil {
			logx.Error().Err(err).Msg("Failed to bind capabilities to chat model")
			return nil, fmt.Errorf("failed to bind capabilities: %w", err)
		}
	}

	return &GeminiProvider{chat: chat, modelName: cfg.Model.Name}, nil
}

// Generate runs one model call and logs token usage when the API reports it.
func (p *GeminiProvider) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	msg, err := p.chat.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		u := msg.ResponseMeta.Usage
		logx.Debug().
			Str("model", p.modelName).
			Int("prompt_tokens", u.PromptTokens).
			Int("completion_tokens", u.CompletionTokens).
			Int("total_tokens", u.TotalTokens).
			Msg("Model call token usage")
	}
	return msg, nil
}
