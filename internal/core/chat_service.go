package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gwi.com/telegram-assistant/internal/conversation"
	"gwi.com/telegram-assistant/internal/utils"
)

const (
	// MaxAnswerLen is the longest reply, in characters, sent back to a user.
	MaxAnswerLen = 500

	FallbackAnswer = "❌ Something went wrong while processing your request. Try again later."
)

// Completer produces the assistant's next message.
type Completer interface {
	Complete(ctx context.Context, history []conversation.Turn, prompt string, image []byte) (string, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type ChatService struct {
	store  conversation.Store
	llm    Completer
	logger logrus.FieldLogger
}

func NewChatService(store conversation.Store, llm Completer, logger logrus.FieldLogger) *ChatService {
	return &ChatService{
		store:  store,
		llm:    llm,
		logger: logger,
	}
}

// Ask sends text (and an optional image) to the LLM with the user's recent
// context and returns the reply. Failures are logged and turned into
// FallbackAnswer; the user's turn stays in the context either way.
func (s *ChatService) Ask(ctx context.Context, userID int64, text string, image []byte) string {
	log := s.logger.WithField("user_id", userID)

	answer, err := s.ask(ctx, userID, text, image)
	if err != nil {
		log.WithError(err).Error("Failed to get LLM response")
		return FallbackAnswer
	}
	return answer
}

func (s *ChatService) ask(ctx context.Context, userID int64, text string, image []byte) (string, error) {
	if err := s.store.Append(ctx, userID, conversation.Turn{Role: conversation.RoleUser, Content: text}); err != nil {
		return "", fmt.Errorf("failed to store user turn: %w", err)
	}

	history, err := s.store.History(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load context: %w", err)
	}
	// The last turn is the message being asked now.
	if n := len(history); n > 0 {
		history = history[:n-1]
	}

	answer, err := s.llm.Complete(ctx, history, text, image)
	if err != nil {
		return "", fmt.Errorf("failed to get LLM completion: %w", err)
	}
	answer = utils.Truncate(answer, MaxAnswerLen)

	if err := s.store.Append(ctx, userID, conversation.Turn{Role: conversation.RoleAssistant, Content: answer}); err != nil {
		// The user still gets the answer; only the context is incomplete.
		s.logger.WithField("user_id", userID).WithError(err).Warn("Failed to store assistant turn")
	}
	return answer, nil
}

// Clear forgets the user's conversation context.
func (s *ChatService) Clear(ctx context.Context, userID int64) error {
	return s.store.Clear(ctx, userID)
}

// Transcribe turns a voice message into text, cut to MaxAnswerLen. Voice
// messages do not go through the conversation context.
func (s *ChatService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	text, err := s.llm.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}
	return utils.Truncate(text, MaxAnswerLen), nil
}
