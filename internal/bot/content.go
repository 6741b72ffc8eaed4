package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gwi.com/telegram-assistant/internal/core"
)

const defaultVoiceMIME = "audio/ogg"

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	b.logDialog(msg, msg.Text)
	b.sendAction(msg, tgbotapi.ChatTyping)

	if core.IsImageRequest(msg.Text) {
		b.handleImageRequest(ctx, msg)
		return
	}

	b.reply(ctx, msg, b.assistant.Ask(ctx, msg.From.ID, msg.Text, nil))
}

func (b *Bot) handleImageRequest(ctx context.Context, msg *tgbotapi.Message) {
	log := b.msgLogger(msg)
	b.sendAction(msg, tgbotapi.ChatUploadPhoto)

	image, err := b.images.Generate(ctx, msg.Text)
	if err != nil {
		log.WithError(err).Error("Failed to generate image")
		b.reply(ctx, msg, imageFailedText)
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "image.png", Bytes: image})
	photo.Caption = imageCaption
	if _, err := b.api.Send(photo); err != nil {
		log.WithError(err).Error("Failed to send generated image")
		b.reply(ctx, msg, imageFailedText)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	caption := msg.Caption
	if caption == "" {
		caption = defaultCaption
	}
	b.logDialog(msg, photoLogPrefix+caption)
	b.sendAction(msg, tgbotapi.ChatTyping)

	// Telegram lists the sizes smallest first.
	largest := msg.Photo[len(msg.Photo)-1]
	image, err := b.download(ctx, largest.FileID)
	if err != nil {
		b.msgLogger(msg).WithError(err).Error("Failed to process photo")
		b.reply(ctx, msg, photoFailedText)
		return
	}

	b.reply(ctx, msg, b.assistant.Ask(ctx, msg.From.ID, caption, image))
}

func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	log := b.msgLogger(msg)
	b.sendAction(msg, tgbotapi.ChatTyping)

	audio, err := b.download(ctx, msg.Voice.FileID)
	if err != nil {
		log.WithError(err).Error("Failed to download voice message")
		b.reply(ctx, msg, voiceFailedText)
		return
	}

	mimeType := msg.Voice.MimeType
	if mimeType == "" {
		mimeType = defaultVoiceMIME
	}
	text, err := b.assistant.Transcribe(ctx, audio, mimeType)
	if err != nil {
		log.WithError(err).Error("Failed to transcribe voice message")
		b.reply(ctx, msg, voiceFailedText)
		return
	}

	b.logDialog(msg, voiceLogPrefix+text)
	b.reply(ctx, msg, voiceHeardPrefix+text)
}
