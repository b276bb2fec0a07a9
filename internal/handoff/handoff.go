// Package handoff persists the pending style selection that the booking flow
// picks up. Records live in a small key-value store shared with the booking
// collaborator, which reads the record and clears it once a booking exists.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"styleme/internal/domain"
)

// BaseKey is the well-known key the booking flow reads.
const BaseKey = "selectedStyle"

// Store is a minimal key-value contract. Get returns domain.ErrNotFound for
// missing keys; Clear on a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}

// taker is implemented by stores that can read and delete in one step.
type taker interface {
	Take(ctx context.Context, key string) ([]byte, error)
}

// Key returns the handoff key for an owner. Anonymous sessions share BaseKey.
func Key(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return BaseKey
	}
	return BaseKey + ":" + owner
}

// Publish replaces whatever record is stored under key.
func Publish(ctx context.Context, store Store, key string, rec domain.SelectionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("publish selection: %w", err)
	}
	return nil
}

// Load reads the record under key without clearing it.
func Load(ctx context.Context, store Store, key string) (domain.SelectionRecord, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return domain.SelectionRecord{}, err
	}
	return decode(raw)
}

// Consume reads the record under key and clears it.
func Consume(ctx context.Context, store Store, key string) (domain.SelectionRecord, error) {
	if t, ok := store.(taker); ok {
		raw, err := t.Take(ctx, key)
		if err != nil {
			return domain.SelectionRecord{}, err
		}
		return decode(raw)
	}
	rec, err := Load(ctx, store, key)
	if err != nil {
		return domain.SelectionRecord{}, err
	}
	if err := store.Clear(ctx, key); err != nil {
		return domain.SelectionRecord{}, fmt.Errorf("clear selection: %w", err)
	}
	return rec, nil
}

func decode(raw []byte) (domain.SelectionRecord, error) {
	var rec domain.SelectionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.SelectionRecord{}, fmt.Errorf("decode selection: %w", err)
	}
	return rec, nil
}
