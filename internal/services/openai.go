package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	oaoption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"
)

const openaiName = "openai"

type OpenAIService struct {
	client *openai.Client
	model  string
	logger *zap.SugaredLogger
}

func NewOpenAIService(apiKey, model string, logger *zap.SugaredLogger) *OpenAIService {
	s := &OpenAIService{model: model, logger: logger}
	if strings.TrimSpace(apiKey) == "" {
		logger.Warnw("OpenAI API key not set; responses will use credential guidance")
		return s
	}
	client := openai.NewClient(oaoption.WithAPIKey(apiKey))
	s.client = &client
	return s
}

func (s *OpenAIService) TextQuery(ctx context.Context, prompt string) (string, error) {
	return s.send(ctx, responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: buildTextPrompt(prompt)}},
	})
}

func (s *OpenAIService) ImageQuery(ctx context.Context, data []byte, mimeType, description string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return s.send(ctx, responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: buildImagePrompt(description)}},
		{OfInputImage: &responses.ResponseInputImageParam{
			Detail:   responses.ResponseInputImageDetailAuto,
			ImageURL: openai.String(dataURL),
		}},
	})
}

func (s *OpenAIService) send(ctx context.Context, content responses.ResponseInputMessageContentListParam) (string, error) {
	if s.client == nil {
		return "", credentialError(openaiName, ErrMissingCredential)
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        openai.ChatModel(s.model),
		Instructions: openai.String(systemInstruction),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", transientError(openaiName, ErrEmptyResponse)
	}
	return text, nil
}

func classifyOpenAIError(err error) *ProviderError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return credentialError(openaiName, err)
		}
	}
	return transientError(openaiName, err)
}
