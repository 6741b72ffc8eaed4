package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/telegram-assistant/internal/conversation"
)

type fakeCompleter struct {
	answer   string
	err      error
	history  []conversation.Turn
	prompt   string
	image    []byte
	audioMIM string
}

func (f *fakeCompleter) Complete(ctx context.Context, history []conversation.Turn, prompt string, image []byte) (string, error) {
	f.history = history
	f.prompt = prompt
	f.image = image
	return f.answer, f.err
}

func (f *fakeCompleter) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.audioMIM = mimeType
	return f.answer, f.err
}

func TestAskSendsPriorTurnsAndStoresAnswer(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	store := conversation.NewMemoryStore(conversation.DefaultMaxTurns)
	llm := &fakeCompleter{answer: "second answer"}
	svc := NewChatService(store, llm, logger)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, 1,
		conversation.Turn{Role: conversation.RoleUser, Content: "first"},
		conversation.Turn{Role: conversation.RoleAssistant, Content: "first answer"},
	))

	got := svc.Ask(ctx, 1, "second", []byte{0xff})
	assert.Equal(t, "second answer", got)
	assert.Equal(t, "second", llm.prompt)
	assert.Equal(t, []byte{0xff}, llm.image)
	assert.Equal(t, []conversation.Turn{
		{Role: conversation.RoleUser, Content: "first"},
		{Role: conversation.RoleAssistant, Content: "first answer"},
	}, llm.history)

	history, _ := store.History(ctx, 1)
	require.Len(t, history, 4)
	assert.Equal(t, conversation.Turn{Role: conversation.RoleAssistant, Content: "second answer"}, history[3])
}

func TestAskTruncatesLongAnswers(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	llm := &fakeCompleter{answer: strings.Repeat("ы", 800)}
	svc := NewChatService(conversation.NewMemoryStore(conversation.DefaultMaxTurns), llm, logger)

	got := svc.Ask(context.Background(), 1, "q", nil)
	assert.Equal(t, strings.Repeat("ы", MaxAnswerLen), got)
}

func TestAskReturnsFallbackOnError(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	store := conversation.NewMemoryStore(conversation.DefaultMaxTurns)
	svc := NewChatService(store, &fakeCompleter{err: errors.New("quota exceeded")}, logger)
	ctx := context.Background()

	got := svc.Ask(ctx, 5, "hello", nil)
	assert.Equal(t, FallbackAnswer, got)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	history, _ := store.History(ctx, 5)
	assert.Equal(t, []conversation.Turn{{Role: conversation.RoleUser, Content: "hello"}}, history)
}

func TestContextStaysBounded(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	store := conversation.NewMemoryStore(conversation.DefaultMaxTurns)
	svc := NewChatService(store, &fakeCompleter{answer: "ok"}, logger)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		svc.Ask(ctx, 1, "q", nil)
	}

	history, _ := store.History(ctx, 1)
	assert.Len(t, history, conversation.DefaultMaxTurns)
}

func TestClearAndTranscribe(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	store := conversation.NewMemoryStore(conversation.DefaultMaxTurns)
	llm := &fakeCompleter{answer: "you said hi"}
	svc := NewChatService(store, llm, logger)
	ctx := context.Background()

	svc.Ask(ctx, 1, "q", nil)
	require.NoError(t, svc.Clear(ctx, 1))
	history, _ := store.History(ctx, 1)
	assert.Empty(t, history)

	text, err := svc.Transcribe(ctx, []byte("ogg"), "audio/ogg")
	require.NoError(t, err)
	assert.Equal(t, "you said hi", text)
	assert.Equal(t, "audio/ogg", llm.audioMIM)
}
