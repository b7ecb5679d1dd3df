package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/concierge/internal/core"
)

const yandexBaseURL = "https://llm.api.cloud.yandex.net"

// Yandex talks to the Yandex Foundation Models API, which is not
// OpenAI-compatible and needs folder-scoped model URIs.
type Yandex struct {
	baseProvider
	folderID string
	model    string
}

func NewYandex(apiKey, folderID, model string, timeout time.Duration) *Yandex {
	if model == "" {
		model = "yandexgpt-lite"
	}
	return &Yandex{
		baseProvider: newBaseProvider(yandexBaseURL, apiKey, timeout),
		folderID:     folderID,
		model:        model,
	}
}

func (y *Yandex) Name() string {
	return "yandex"
}

func (y *Yandex) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Api-Key " + y.apiKey,
		"x-folder-id":   y.folderID,
	}
}

type yandexEmbeddingRequest struct {
	ModelURI string `json:"modelUri"`
	Text     string `json:"text"`
}

type yandexEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (y *Yandex) Embed(ctx context.Context, text string) ([]float32, error) {
	body := yandexEmbeddingRequest{
		ModelURI: fmt.Sprintf("emb://%s/text-search-query/latest", y.folderID),
		Text:     text,
	}

	resp, err := y.doRequest(ctx, "POST", "/foundationModels/v1/textEmbedding", body, y.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("yandex embedding: %w", err)
	}

	var out yandexEmbeddingResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, fmt.Errorf("yandex embedding: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, errors.New("yandex embedding: empty vector")
	}

	vec := make([]float32, len(out.Embedding))
	for i, v := range out.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexCompletionRequest struct {
	ModelURI          string `json:"modelUri"`
	CompletionOptions struct {
		Temperature float32 `json:"temperature"`
		MaxTokens   string  `json:"maxTokens,omitempty"`
	} `json:"completionOptions"`
	Messages []yandexMessage `json:"messages"`
}

type yandexCompletionResponse struct {
	Result struct {
		Alternatives []struct {
			Message yandexMessage `json:"message"`
		} `json:"alternatives"`
		Usage struct {
			TotalTokens string `json:"totalTokens"`
		} `json:"usage"`
	} `json:"result"`
}

func (y *Yandex) Generate(ctx context.Context, req core.GenerationRequest) (core.GenerationResult, error) {
	model := req.Settings.Model
	if model == "" {
		model = y.model
	}

	body := yandexCompletionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s/latest", y.folderID, model),
	}
	body.CompletionOptions.Temperature = req.Settings.Temperature
	if req.Settings.MaxTokens > 0 {
		body.CompletionOptions.MaxTokens = strconv.Itoa(req.Settings.MaxTokens)
	}

	body.Messages = append(body.Messages, yandexMessage{Role: "system", Text: req.System})
	for _, turn := range req.History {
		role := "user"
		if turn.Role == core.RoleAssistant {
			role = "assistant"
		}
		body.Messages = append(body.Messages, yandexMessage{Role: role, Text: turn.Content})
	}
	body.Messages = append(body.Messages, yandexMessage{Role: "user", Text: req.UserText})

	resp, err := y.doRequest(ctx, "POST", "/foundationModels/v1/completion", body, y.authHeaders())
	if err != nil {
		return core.GenerationResult{}, fmt.Errorf("yandex completion: %w", err)
	}

	var out yandexCompletionResponse
	if err := decodeResponse(resp, &out); err != nil {
		return core.GenerationResult{}, fmt.Errorf("yandex completion: %w", err)
	}
	if len(out.Result.Alternatives) == 0 {
		return core.GenerationResult{}, errors.New("yandex completion: no alternatives")
	}

	tokens, _ := strconv.Atoi(out.Result.Usage.TotalTokens)
	return core.GenerationResult{
		Text:       out.Result.Alternatives[0].Message.Text,
		TokensUsed: tokens,
	}, nil
}
