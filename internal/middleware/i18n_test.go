package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"styleme/internal/domain"
)

type assertError string

func (e assertError) Error() string { return string(e) }

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		country  string
		want     domain.Locale
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "AR")
			},
			country: "US",
			want:    domain.LocaleArabic,
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			country: "SA",
			want:    domain.LocaleEnglish,
		},
		{
			name: "accept-language arabic preference",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "ar-SA,en;q=0.8")
			},
			want: domain.LocaleArabic,
		},
		{
			name: "unsupported accept-language falls through to country",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "ja-JP")
			},
			country: "AE",
			want:    domain.LocaleArabic,
		},
		{
			name:    "arabic country",
			country: "SA",
			want:    domain.LocaleArabic,
		},
		{
			name:    "other country falls back to en",
			country: "US",
			want:    domain.LocaleEnglish,
		},
		{
			name:     "configured fallback",
			fallback: "ar",
			want:     domain.LocaleArabic,
		},
		{
			name: "default to en",
			want: domain.LocaleEnglish,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			got := detectLocale(req, tc.fallback, tc.country)
			if got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		resolver CountryLookup
		want     string
	}{
		{
			name: "header precedence",
			setup: func(r *http.Request) {
				r.Header.Set("X-Country-Code", "sa")
				r.Header.Set("CF-IPCountry", "us")
			},
			want: "SA",
		},
		{
			name: "locale region fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "ar-EG")
			},
			want: "EG",
		},
		{
			name: "accept-language region",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-GB,en;q=0.9")
			},
			want: "GB",
		},
		{
			name: "resolver fallback",
			resolver: func(ip string) (string, error) {
				if ip != "203.0.113.4" {
					t.Fatalf("unexpected ip: %s", ip)
				}
				return "kw", nil
			},
			want: "KW",
		},
		{
			name: "resolver error returns empty",
			resolver: func(ip string) (string, error) {
				return "", assertError("boom")
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.4:80"
			if tc.setup != nil {
				tc.setup(req)
			}
			got := ResolveCountry(req, tc.resolver)
			if got != tc.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestI18NSetsContextAndHeader(t *testing.T) {
	var seen domain.Locale
	h := I18N("en", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ar")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != domain.LocaleArabic {
		t.Fatalf("locale = %q", seen)
	}
	if rec.Header().Get("Content-Language") != "ar" {
		t.Fatalf("Content-Language = %q", rec.Header().Get("Content-Language"))
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != domain.LocaleEnglish {
		t.Fatalf("LocaleFromContext() default = %q, want %q", got, domain.LocaleEnglish)
	}
	ctx = context.WithValue(ctx, LocaleKey, domain.LocaleArabic)
	if got := LocaleFromContext(ctx); got != domain.LocaleArabic {
		t.Fatalf("LocaleFromContext() with value = %q, want %q", got, domain.LocaleArabic)
	}
}
