package interpreter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

// GeminiInterpreter asks Gemini for a JSON interpretation.
type GeminiInterpreter struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

var _ port.Interpreter = (*GeminiInterpreter)(nil)

func NewGeminiInterpreter(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiInterpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiInterpreter{
		client: client,
		model:  cfg.Model,
		logger: logger.Named("gemini"),
	}, nil
}

func (g *GeminiInterpreter) Interpret(ctx context.Context, text string, capability string) (port.Interpretation, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt(capability), genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		g.logger.Warn("Generation failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return port.Interpretation{}, fmt.Errorf("%w: gemini: %v", domain.ErrUpstreamInterpreter, err)
	}

	out, err := decodeInterpretation(resp.Text())
	if err != nil {
		return port.Interpretation{}, fmt.Errorf("%w: gemini: %v", domain.ErrUpstreamInterpreter, err)
	}
	g.logger.Debug("Generation decoded",
		zap.String("model", g.model),
		zap.Int("operations", len(out.Operations)),
		zap.Duration("latency", time.Since(start)))
	return out, nil
}
