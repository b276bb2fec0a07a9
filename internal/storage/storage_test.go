package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"styleme/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()
	key, err := store.Write(ctx, "./batch/../batch/one.png", []byte("png"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "batch/one.png" {
		t.Fatalf("key = %q", key)
	}
	data, err := store.Read(ctx, key)
	if err != nil || string(data) != "png" {
		t.Fatalf("Read() = %q, %v", data, err)
	}
	if err := store.RemovePrefix(ctx, "batch"); err != nil {
		t.Fatalf("RemovePrefix() error = %v", err)
	}
	if _, err := store.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read() after remove error = %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, key := range []string{"", "../escape.png", "a/../../b"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestPublishers(t *testing.T) {
	img := domain.Image{Data: []byte{1, 2}, MIME: "image/png"}
	uri, err := DataURIPublisher{}.Publish(context.Background(), "k", img)
	if err != nil || !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("data uri publish = %q, %v", uri, err)
	}

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	pub := NewFilePublisher(store, "http://localhost:8080/static/")
	url, err := pub.Publish(context.Background(), "b1/b1-1", img)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if url != "http://localhost:8080/static/b1/b1-1.png" {
		t.Fatalf("url = %q", url)
	}
	if data, err := store.Read(context.Background(), "b1/b1-1.png"); err != nil || len(data) != 2 {
		t.Fatalf("stored bytes = %v, %v", data, err)
	}
}
