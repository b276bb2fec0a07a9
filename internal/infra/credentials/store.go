// Package credentials keeps remote provider keys in Postgres so a deployment
// can rotate them without touching the environment.
package credentials

import (
	"context"
	"errors"
	"strings"

	"styleme/internal/infra"
	"styleme/internal/sqlinline"
)

const (
	ProviderGemini    = "gemini"
	ProviderHairstyle = "hairstyle"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.sql.Exec(ctx, sqlinline.QEnsureIntegrationTokens)
	return err
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	token = strings.TrimSpace(token)
	if provider == "" {
		return errors.New("provider is required")
	}
	if token == "" {
		return errors.New("token is required")
	}
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token)
	return err
}

// ResolveGeminiKey prefers the configured key and falls back to the stored one.
func (s *Store) ResolveGeminiKey(ctx context.Context, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	if s == nil {
		return "", errors.New("gemini api key is not configured")
	}
	key, err := s.Token(ctx, ProviderGemini)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New("gemini api key is not configured")
	}
	return key, nil
}
