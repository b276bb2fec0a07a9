package domain

import (
	"fmt"
	"strings"
)

// StyleCategory selects which catalog subset a generation request uses.
type StyleCategory string

const (
	CategoryMale   StyleCategory = "male"
	CategoryFemale StyleCategory = "female"
)

// ParseCategory normalizes free-form input into a supported category.
func ParseCategory(v string) (StyleCategory, error) {
	switch StyleCategory(strings.ToLower(strings.TrimSpace(v))) {
	case CategoryMale:
		return CategoryMale, nil
	case CategoryFemale:
		return CategoryFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, v)
	}
}

// StyleKind tags what a style changes.
type StyleKind string

const (
	KindHaircut StyleKind = "haircut"
	KindColor   StyleKind = "color"
	KindBeard   StyleKind = "beard"
)

// Locale enumerates the label languages the catalog carries.
type Locale string

const (
	LocaleArabic  Locale = "ar"
	LocaleEnglish Locale = "en"
)

// SupportedLocales lists every locale each label must provide.
var SupportedLocales = []Locale{LocaleArabic, LocaleEnglish}

// NormalizeLocale maps an arbitrary tag onto a supported locale.
func NormalizeLocale(v string) Locale {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "ar") {
		return LocaleArabic
	}
	return LocaleEnglish
}

// Labels holds one user-facing text per locale.
type Labels map[Locale]string

// In returns the label for the locale, falling back to English.
func (l Labels) In(locale Locale) string {
	if v, ok := l[locale]; ok && v != "" {
		return v
	}
	return l[LocaleEnglish]
}

// StyleDescriptor is a static catalog entry, independent of any photo.
type StyleDescriptor struct {
	Key    string
	Kind   StyleKind
	Labels Labels
	Prompt string
	Filter FilterSpec
}

// StyleSource records which path produced a generated style.
type StyleSource string

const (
	SourceRemote StyleSource = "remote"
	SourceLocal  StyleSource = "local"
)

// GeneratedStyle is one entry of a generation batch.
type GeneratedStyle struct {
	ID         string      `json:"id"`
	ImageURL   string      `json:"image_url"`
	Kind       StyleKind   `json:"style_type"`
	Labels     Labels      `json:"description"`
	Confidence float64     `json:"confidence"`
	Source     StyleSource `json:"source"`
	Key        string      `json:"key"`

	// Image keeps the rendered bytes when they are available locally.
	Image *Image `json:"-"`
}
