package geoip

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewResolverEmptyPath(t *testing.T) {
	r, err := NewResolver("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != nil {
		t.Fatal("expected nil resolver")
	}
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("CountryCode() error = %v, want ErrUnavailable", err)
	}
	if r.Lookup() != nil {
		t.Fatal("nil resolver should not provide a lookup")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestNewResolverMissingFile(t *testing.T) {
	if _, err := NewResolver(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Fatal("expected error for missing database")
	}
}
