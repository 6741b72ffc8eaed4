// Package bot routes Telegram updates to the assistant.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"gwi.com/telegram-assistant/internal/store"
	"gwi.com/telegram-assistant/internal/utils"
)

const (
	// maxMessageLen is Telegram's limit for a text message, in UTF-16 code units.
	maxMessageLen = 4096

	downloadTimeout = 30 * time.Second
	maxFileBytes    = 20 << 20
)

// Messenger is the part of the Telegram Bot API the handlers use.
// *tgbotapi.BotAPI satisfies it.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Assistant interface {
	Ask(ctx context.Context, userID int64, text string, image []byte) string
	Clear(ctx context.Context, userID int64) error
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type DialogLogger interface {
	Append(entry store.DialogEntry) error
}

type ReportReader interface {
	ReadDaily() (text string, found bool, err error)
}

type QuotaCounter interface {
	IncrementReportRequests(ctx context.Context, userID int64, day string) (int, error)
}

type Options struct {
	Messenger   Messenger
	Assistant   Assistant
	Images      ImageGenerator
	Dialogs     DialogLogger
	Reports     ReportReader
	Quota       QuotaCounter
	ReportLimit int
	Logger      logrus.FieldLogger
	HTTPClient  *http.Client
	// Now returns the current time in the reporting time zone.
	Now func() time.Time
}

type Bot struct {
	api         Messenger
	assistant   Assistant
	images      ImageGenerator
	dialogs     DialogLogger
	reports     ReportReader
	quota       QuotaCounter
	reportLimit int
	logger      logrus.FieldLogger
	httpClient  *http.Client
	now         func() time.Time
}

func New(opts Options) *Bot {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: downloadTimeout}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ReportLimit <= 0 {
		opts.ReportLimit = 5
	}
	return &Bot{
		api:         opts.Messenger,
		assistant:   opts.Assistant,
		images:      opts.Images,
		dialogs:     opts.Dialogs,
		reports:     opts.Reports,
		quota:       opts.Quota,
		reportLimit: opts.ReportLimit,
		logger:      opts.Logger,
		httpClient:  opts.HTTPClient,
		now:         opts.Now,
	}
}

// HandleUpdate dispatches one Telegram update. Updates without a user
// message (edits, channel posts, callbacks) are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.Voice != nil:
		b.handleVoice(ctx, msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	default:
		b.logger.WithField("update_id", update.UpdateID).Debug("Ignoring unsupported message type")
	}
}

// SendText sends a plain text message to chatID.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, utils.TruncateUTF16(text, maxMessageLen))); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	if err := b.SendText(ctx, msg.Chat.ID, text); err != nil {
		b.msgLogger(msg).WithError(err).Error("Failed to send reply")
	}
}

func (b *Bot) sendAction(msg *tgbotapi.Message, action string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, action)); err != nil {
		b.msgLogger(msg).WithError(err).Debug("Failed to send chat action")
	}
}

func (b *Bot) logDialog(msg *tgbotapi.Message, text string) {
	err := b.dialogs.Append(store.DialogEntry{
		Timestamp:   b.now(),
		UserID:      msg.From.ID,
		UserName:    displayName(msg.From),
		MessageText: text,
	})
	if err != nil {
		b.msgLogger(msg).WithError(err).Error("Failed to write dialog log")
	}
}

// download fetches a file the user sent to the bot.
func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build file request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file %s: status %d", fileID, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

func (b *Bot) msgLogger(msg *tgbotapi.Message) logrus.FieldLogger {
	return b.logger.WithFields(logrus.Fields{
		"user_id": msg.From.ID,
		"chat_id": msg.Chat.ID,
	})
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
