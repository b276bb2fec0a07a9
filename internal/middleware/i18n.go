package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"styleme/internal/domain"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// supportedTags must stay in the same order as supportedLocales.
var (
	supportedTags    = []language.Tag{language.English, language.Arabic}
	supportedLocales = []domain.Locale{domain.LocaleEnglish, domain.LocaleArabic}
	localeMatcher    = language.NewMatcher(supportedTags)
)

// arabicCountries default to Arabic labels when the client sends no
// language preference.
var arabicCountries = map[string]struct{}{
	"AE": {}, "BH": {}, "DZ": {}, "EG": {}, "IQ": {}, "JO": {}, "KW": {},
	"LB": {}, "LY": {}, "MA": {}, "MR": {}, "OM": {}, "PS": {}, "QA": {},
	"SA": {}, "SD": {}, "SY": {}, "TN": {}, "YE": {},
}

func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, defaultLocale, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			w.Header().Set("Content-Language", string(locale))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) domain.Locale {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if locale, ok := matchLocale(v); ok {
			return locale
		}
	}
	if locale, ok := matchLocale(r.Header.Get("Accept-Language")); ok {
		return locale
	}
	if _, ok := arabicCountries[strings.ToUpper(country)]; ok {
		return domain.LocaleArabic
	}
	if country != "" {
		return domain.LocaleEnglish
	}
	if fallback != "" {
		return domain.NormalizeLocale(fallback)
	}
	return domain.LocaleEnglish
}

// matchLocale picks the best supported locale for an Accept-Language style
// value. ok is false when nothing in the value is usable.
func matchLocale(header string) (domain.Locale, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(supportedLocales) {
		return "", false
	}
	return supportedLocales[idx], true
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) domain.Locale {
	if v, ok := ctx.Value(LocaleKey).(domain.Locale); ok && v != "" {
		return v
	}
	return domain.LocaleEnglish
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		if idx := strings.IndexAny(token, "-_"); idx > 0 && idx < len(token)-1 {
			return strings.ToUpper(token[idx+1:])
		}
	}
	return ""
}
