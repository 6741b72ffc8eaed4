package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookGuard only lets through requests whose {token} path parameter is the
// bot token and, when secret is set, whose secret header matches it.
func WebhookGuard(botToken, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !equal(chi.URLParam(r, "token"), botToken) {
				http.NotFound(w, r)
				return
			}
			if secret != "" && !equal(r.Header.Get(SecretTokenHeader), secret) {
				http.Error(w, "Invalid secret token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func equal(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
