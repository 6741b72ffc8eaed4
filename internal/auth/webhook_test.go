package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func guarded(secret string) http.Handler {
	r := chi.NewRouter()
	r.With(WebhookGuard("123:abc", secret)).Post("/{token}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestWebhookGuard(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		path   string
		header string
		want   int
	}{
		{name: "valid token", path: "/123:abc", want: http.StatusOK},
		{name: "wrong token", path: "/456:def", want: http.StatusNotFound},
		{name: "valid secret", secret: "s3cret", path: "/123:abc", header: "s3cret", want: http.StatusOK},
		{name: "missing secret", secret: "s3cret", path: "/123:abc", want: http.StatusUnauthorized},
		{name: "wrong secret", secret: "s3cret", path: "/123:abc", header: "nope", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(SecretTokenHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			guarded(tc.secret).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
