package storage

import (
	"context"
	"strings"

	"styleme/internal/domain"
)

// DataURIPublisher inlines images as data: URIs. Nothing is written.
type DataURIPublisher struct{}

func (DataURIPublisher) Publish(ctx context.Context, key string, img domain.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return img.DataURI(), nil
}

// FilePublisher writes images to a FileStore and returns their public URL.
type FilePublisher struct {
	Store   *FileStore
	BaseURL string
}

// NewFilePublisher builds a publisher rooted at the store, serving under baseURL.
func NewFilePublisher(store *FileStore, baseURL string) *FilePublisher {
	return &FilePublisher{Store: store, BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

func (p *FilePublisher) Publish(ctx context.Context, key string, img domain.Image) (string, error) {
	if ext := extensionFor(img.MIME); !strings.HasSuffix(key, ext) {
		key += ext
	}
	stored, err := p.Store.Write(ctx, key, img.Data)
	if err != nil {
		return "", err
	}
	if p.BaseURL == "" {
		return "/" + stored, nil
	}
	return p.BaseURL + "/" + stored, nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
