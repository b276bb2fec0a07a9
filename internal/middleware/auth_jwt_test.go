package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"styleme/internal/domain"
)

const testSecret = "test-secret"

func token(t *testing.T, secret, sub, locale string, exp time.Time) string {
	t.Helper()
	tok, err := SignJWT(secret, TokenClaims{
		Locale: locale,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		t.Fatalf("SignJWT() error = %v", err)
	}
	return tok
}

func TestAuthJWT(t *testing.T) {
	valid := token(t, testSecret, "user-42", "ar", time.Now().Add(time.Hour))
	tests := []struct {
		name     string
		optional bool
		header   string
		status   int
		user     string
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK, user: "user-42"},
		{name: "missing header required", status: http.StatusUnauthorized},
		{name: "missing header optional", optional: true, status: http.StatusOK},
		{name: "wrong scheme", header: "Basic abc", optional: true, status: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + token(t, "other", "u", "", time.Now().Add(time.Hour)), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + token(t, testSecret, "u", "", time.Now().Add(-time.Hour)), status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var user string
			var locale domain.Locale
			h := AuthJWT(testSecret, tc.optional)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user = UserIDFromContext(r.Context())
				locale = LocaleFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if user != tc.user {
				t.Fatalf("user = %q, want %q", user, tc.user)
			}
			if tc.user != "" && locale != domain.LocaleArabic {
				t.Fatalf("token locale not applied: %q", locale)
			}
		})
	}
}
