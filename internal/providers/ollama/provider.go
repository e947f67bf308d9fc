package ollama

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/sambhav874/WingHeights/internal/config"
	"github.com/sambhav874/WingHeights/internal/providers"
)

// Provider runs completions against a locally served Ollama model.
type Provider struct {
	id     string
	config config.ProviderConfig
	llm    *ollama.LLM
}

// NewProvider creates a new Ollama provider
func NewProvider(id string, cfg config.ProviderConfig) (*Provider, error) {
	if cfg.Model == "" {
		return nil, errors.New("model is required for Ollama provider")
	}

	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &Provider{
		id:     id,
		config: cfg,
		llm:    llm,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.config.Name
}

// Complete performs a chat completion
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	content := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		var role schema.ChatMessageType
		switch msg.Role {
		case providers.RoleSystem:
			role = schema.ChatMessageTypeSystem
		case providers.RoleAssistant:
			role = schema.ChatMessageTypeAI
		default:
			role = schema.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}

	var callOpts []llms.CallOption
	if req.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(float64(*req.Temperature)))
	}
	if req.MaxTokens != nil {
		callOpts = append(callOpts, llms.WithMaxTokens(*req.MaxTokens))
	}

	resp, err := p.llm.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	return &providers.CompletionResponse{
		Content: resp.Choices[0].Content,
		Model:   p.config.Model,
	}, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if p.config.Model == "" {
		return errors.New("model is required")
	}
	return nil
}

// LLM exposes the underlying client for embedding reuse.
func (p *Provider) LLM() *ollama.LLM {
	return p.llm
}
