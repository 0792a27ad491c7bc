package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIInterpreter calls the chat completions endpoint in JSON mode.
type OpenAIInterpreter struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

var _ port.Interpreter = (*OpenAIInterpreter)(nil)

func NewOpenAIInterpreter(cfg OpenAIConfig, logger *zap.Logger) (*OpenAIInterpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIInterpreter{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("openai"),
	}, nil
}

func (c *OpenAIInterpreter) Interpret(ctx context.Context, text string, capability string) (port.Interpretation, error) {
	start := time.Now()
	body, err := json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt(capability)},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return port.Interpretation{}, fmt.Errorf("marshal request: %w", err)
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		c.logger.Warn("Completion failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return port.Interpretation{}, fmt.Errorf("%w: openai: %v", domain.ErrUpstreamInterpreter, err)
	}

	out, err := decodeInterpretation(content)
	if err != nil {
		return port.Interpretation{}, fmt.Errorf("%w: openai: %v", domain.ErrUpstreamInterpreter, err)
	}
	c.logger.Debug("Completion decoded",
		zap.String("model", c.model),
		zap.Int("operations", len(out.Operations)),
		zap.Duration("latency", time.Since(start)))
	return out, nil
}

// complete retries rate limits and server errors with exponential backoff.
func (c *OpenAIInterpreter) complete(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
		c.logger.Debug("Retrying completion", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *OpenAIInterpreter) do(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limit exceeded (429)")
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", true, fmt.Errorf("server error %d: %s", resp.StatusCode, string(data))
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("no completion returned")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil
}
