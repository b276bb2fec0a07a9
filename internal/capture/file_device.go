package capture

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// FileDevice serves a still image from disk as if it were a camera frame.
type FileDevice struct {
	Path string
}

// Open fails when the file is missing, mirroring a denied camera.
func (d FileDevice) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", d.Path)
	}
	return &fileStream{path: d.Path}, nil
}

type fileStream struct {
	path   string
	mu     sync.Mutex
	closed bool
}

func (s *fileStream) CaptureFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("stream closed")
	}
	return os.ReadFile(s.path)
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
