package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"gwi.com/telegram-assistant/internal/auth"
)

func NewRouter(webhookHandler *WebhookHandler, botToken, webhookSecret string, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Keep-alive pings hit the root URL.
	r.Get("/", healthHandler)
	r.Get("/health", healthHandler)

	r.With(auth.WebhookGuard(botToken, webhookSecret)).Post("/{token}", webhookHandler.HandleUpdate)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
