package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/upstream"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

const geminiService = "gemini"

// Defaults for the generation API.
const (
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiConfig selects the model. APIKey is required.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
}

// GeminiClient is a Generator backed by the Gemini generateContent API.
type GeminiClient struct {
	cfg  GeminiConfig
	http *upstream.Client
}

var _ services.Generator = (*GeminiClient)(nil)

// NewGeminiClient creates a generation client.
func NewGeminiClient(cfg GeminiConfig, httpClient *upstream.Client) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = upstream.NewClient(geminiService, upstream.Options{})
	}
	return &GeminiClient{cfg: cfg, http: httpClient}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseJSONSchema json.RawMessage `json:"responseJsonSchema,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate sends one prompt and returns the concatenated text of the
// first candidate.
func (c *GeminiClient) Generate(ctx context.Context, req services.GenerationRequest) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", internalErrors.NewConfigurationError("GEMINI_API_KEY", "is not set")
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: c.cfg.Temperature,
		},
	}
	if len(req.ResponseSchema) > 0 {
		body.GenerationConfig.ResponseMimeType = "application/json"
		body.GenerationConfig.ResponseJSONSchema = req.ResponseSchema
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	data, err := c.http.PostJSON(ctx, url, map[string]string{"x-goog-api-key": c.cfg.APIKey}, body)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", internalErrors.NewMalformedResponseError(geminiService, fmt.Sprintf("decode generateContent response: %v", err), string(data))
	}
	if len(resp.Candidates) == 0 {
		reason := "no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason += ", prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return "", internalErrors.NewMalformedResponseError(geminiService, reason, string(data))
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", internalErrors.NewMalformedResponseError(geminiService, fmt.Sprintf("candidate has no text (finish reason %s)", candidate.FinishReason), string(data))
	}

	logger.Debug("generation response", "model", c.cfg.Model, "finish_reason", candidate.FinishReason, "raw", text.String())
	return text.String(), nil
}
