package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/sandevgo/concierge/internal/core"
)

// Base URLs of the OpenAI-compatible providers the product supports.
// ProxyAPI relays OpenAI traffic for accounts that cannot reach it directly.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	deepSeekBaseURL   = "https://api.deepseek.com/v1"
	proxyAPIBaseURL   = "https://api.proxyapi.ru/openai/v1"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// OpenAICompatible talks to any provider speaking the OpenAI chat and
// embeddings API. It serves as both Generator and Embedder.
type OpenAICompatible struct {
	client *openai.Client
	name   string
	model  string
}

type OpenAICompatibleConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAICompatible{
		client: openai.NewClientWithConfig(clientConfig),
		name:   cfg.Name,
		model:  cfg.Model,
	}
}

func (o *OpenAICompatible) Name() string {
	return o.name
}

func (o *OpenAICompatible) Generate(ctx context.Context, req core.GenerationRequest) (core.GenerationResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == core.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserText,
	})

	model := req.Settings.Model
	if model == "" {
		model = o.model
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      req.Settings.Temperature,
		TopP:             req.Settings.TopP,
		FrequencyPenalty: req.Settings.FrequencyPenalty,
		PresencePenalty:  req.Settings.PresencePenalty,
		MaxTokens:        req.Settings.MaxTokens,
	})
	if err != nil {
		return core.GenerationResult{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.GenerationResult{}, errors.New("empty completion response")
	}

	return core.GenerationResult{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (o *OpenAICompatible) Embed(ctx context.Context, text string) ([]float32, error) {
	model := o.model
	if model == "" {
		model = defaultEmbeddingModel
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}
