package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gwi.com/telegram-assistant/internal/conversation"
)

const (
	chatSystemInstruction = "You are a friendly Telegram assistant. Answer in the language of the user, " +
		"briefly and to the point: no more than 500 characters. " +
		"If the user sends a picture, describe or analyse it in the context of their question."

	transcribePrompt = "Transcribe this voice message and give a short answer to it."
)

var errEmptyResponse = errors.New("gemini returned an empty response")

type LLMService struct {
	client    *genai.Client
	modelName string
	logger    logrus.FieldLogger
}

func NewLLMService(ctx context.Context, apiKey, modelName string, logger logrus.FieldLogger) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.WithError(err).Warn("Error closing GenAI client")
		} else {
			s.logger.Info("GenAI client closed.")
		}
	}
}

// Complete continues a conversation: history holds the earlier turns and
// prompt (plus an optional JPEG image) is the new user message.
func (s *LLMService) Complete(ctx context.Context, history []conversation.Turn, prompt string, image []byte) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction)},
	}

	chatSession := model.StartChat()
	chatSession.History = toGeminiHistory(history)

	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		parts = []genai.Part{genai.ImageData("jpeg", image), genai.Text(prompt)}
	}

	resp, err := chatSession.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	return s.responseText(resp)
}

// Transcribe asks the model to transcribe a voice message and reply to it.
func (s *LLMService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text(transcribePrompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini transcription request failed: %w", err)
	}
	return s.responseText(resp)
}

// Summarize runs a single-shot prompt, used for the daily report.
func (s *LLMService) Summarize(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini summary request failed: %w", err)
	}
	return s.responseText(resp)
}

func (s *LLMService) responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyResponse
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			s.logger.Debugf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", errEmptyResponse
	}
	return responseText.String(), nil
}

// toGeminiHistory maps stored turns to Gemini contents; Gemini calls the assistant "model".
// Trimming the context can leave an assistant turn first, and Gemini expects
// a history that opens with the user, so leading assistant turns are dropped.
func toGeminiHistory(turns []conversation.Turn) []*genai.Content {
	for len(turns) > 0 && turns[0].Role == conversation.RoleAssistant {
		turns = turns[1:]
	}
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == conversation.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	return history
}
