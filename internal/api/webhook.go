package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// DefaultUpdateTimeout bounds the processing of one update. It covers an
// image generation (60s request plus 30s download) with room for the replies.
const DefaultUpdateTimeout = 2 * time.Minute

// UpdateHandler processes a single Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type WebhookHandler struct {
	updates UpdateHandler
	logger  logrus.FieldLogger
	timeout time.Duration

	wg sync.WaitGroup
}

func NewWebhookHandler(updates UpdateHandler, logger logrus.FieldLogger, timeout time.Duration) *WebhookHandler {
	if timeout <= 0 {
		timeout = DefaultUpdateTimeout
	}
	return &WebhookHandler{updates: updates, logger: logger, timeout: timeout}
}

// HandleUpdate decodes the update Telegram posted, hands it to Dispatch and
// acknowledges at once. Telegram resends updates it did not see acknowledged,
// so the reply never waits for the LLM or the image API.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.WithError(err).Warn("Invalid webhook payload")
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Dispatch(context.WithoutCancel(r.Context()), update)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

// Dispatch processes update in the background, bounded by the handler timeout.
// Wait blocks until every dispatched update is done.
func (h *WebhookHandler) Dispatch(ctx context.Context, update tgbotapi.Update) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.WithFields(logrus.Fields{
					"update_id": update.UpdateID,
					"panic":     rec,
				}).Error("Update handler panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		h.updates.HandleUpdate(ctx, update)
	}()
}

// Wait returns once all dispatched updates finish or ctx is done.
func (h *WebhookHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
