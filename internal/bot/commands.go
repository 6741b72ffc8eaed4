package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(ctx, msg, welcomeText)
	case "help":
		b.reply(ctx, msg, helpText)
	case "clear":
		b.handleClear(ctx, msg)
	case "ok":
		b.handleReport(ctx, msg)
	default:
		b.msgLogger(msg).WithField("command", msg.Command()).Debug("Ignoring unknown command")
	}
}

func (b *Bot) handleClear(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.assistant.Clear(ctx, msg.From.ID); err != nil {
		b.msgLogger(msg).WithError(err).Error("Failed to clear context")
	}
	b.reply(ctx, msg, clearedText)
}

// handleReport sends the latest daily report, at most reportLimit times per user per day.
func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) {
	log := b.msgLogger(msg)
	day := b.now().Format("2006-01-02")

	count, err := b.quota.IncrementReportRequests(ctx, msg.From.ID, day)
	if err != nil {
		log.WithError(err).Error("Failed to update report quota")
		b.reply(ctx, msg, reportErrorText)
		return
	}
	if count > b.reportLimit {
		b.reply(ctx, msg, fmt.Sprintf(quotaExceededText, b.reportLimit))
		return
	}

	report, found, err := b.reports.ReadDaily()
	switch {
	case err != nil:
		log.WithError(err).Error("Failed to read daily report")
		b.reply(ctx, msg, reportErrorText)
	case !found:
		b.reply(ctx, msg, reportMissingText)
	default:
		b.reply(ctx, msg, reportPrefix+report)
	}
}
