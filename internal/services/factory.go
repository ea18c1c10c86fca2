package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"healthguard-backend/internal/config"
)

// Closer is implemented by providers that hold a client connection.
type Closer interface {
	Close()
}

// NewProvider builds the provider selected by cfg.Provider and applies the
// per-call timeout.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (ResponseProvider, error) {
	var p ResponseProvider
	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := NewGeminiService(ctx, GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			TextModel:   cfg.GeminiTextModel,
			VisionModel: cfg.GeminiVisionModel,
			Temperature: cfg.GeminiTemperature,
		}, logger)
		if err != nil {
			return nil, err
		}
		p = gemini
	case config.ProviderOpenAI:
		p = NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	case config.ProviderOffline:
		p = NewOfflineService()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	logger.Infow("Response provider ready", "provider", cfg.Provider, "timeout", cfg.ProviderTimeout)
	return WithTimeout(p, cfg.ProviderTimeout), nil
}

// CloseProvider releases the client behind p, looking through the timeout
// wrapper.
func CloseProvider(p ResponseProvider) {
	if tp, ok := p.(*timeoutProvider); ok {
		p = tp.next
	}
	if c, ok := p.(Closer); ok {
		c.Close()
	}
}
