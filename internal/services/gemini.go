package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const geminiName = "gemini"

type GeminiConfig struct {
	APIKey      string
	TextModel   string
	VisionModel string
	Temperature float32
}

type GeminiService struct {
	client      *genai.Client
	textModel   *genai.GenerativeModel
	visionModel *genai.GenerativeModel
	logger      *zap.SugaredLogger
}

// NewGeminiService builds the Gemini provider. Without an API key no client is
// created and every query fails with a credential error instead.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, logger *zap.SugaredLogger) (*GeminiService, error) {
	s := &GeminiService{logger: logger}
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warnw("Gemini API key not set; responses will use credential guidance")
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s.client = client
	s.textModel = configureModel(client.GenerativeModel(cfg.TextModel), cfg.Temperature)
	s.visionModel = configureModel(client.GenerativeModel(cfg.VisionModel), cfg.Temperature)
	return s, nil
}

func configureModel(model *genai.GenerativeModel, temperature float32) *genai.GenerativeModel {
	model.SetTemperature(temperature)
	model.SetTopP(0.95)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
	return model
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiService) TextQuery(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", credentialError(geminiName, ErrMissingCredential)
	}

	resp, err := s.textModel.GenerateContent(ctx, genai.Text(buildTextPrompt(prompt)))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return s.responseText(resp)
}

func (s *GeminiService) ImageQuery(ctx context.Context, data []byte, mimeType, description string) (string, error) {
	if s.client == nil {
		return "", credentialError(geminiName, ErrMissingCredential)
	}

	resp, err := s.visionModel.GenerateContent(ctx,
		genai.Text(buildImagePrompt(description)),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return s.responseText(resp)
}

func (s *GeminiService) responseText(resp *genai.GenerateContentResponse) (string, error) {
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warnw("Gemini candidate finished early", "candidate", i, "reason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", transientError(geminiName, ErrEmptyResponse)
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// classifyGeminiError separates rejected credentials from everything else.
// Gemini answers an invalid key with 400 and reason API_KEY_INVALID.
func classifyGeminiError(err error) *ProviderError {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return transientError(geminiName, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return credentialError(geminiName, err)
		case http.StatusBadRequest:
			for _, item := range gerr.Errors {
				if item.Reason == "API_KEY_INVALID" {
					return credentialError(geminiName, err)
				}
			}
			if strings.Contains(gerr.Message, "API key not valid") {
				return credentialError(geminiName, err)
			}
		}
	}
	return transientError(geminiName, err)
}
