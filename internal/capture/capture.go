// Package capture turns an uploaded file or a camera snapshot into a
// SourceImage.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"styleme/internal/domain"
	"styleme/internal/imageio"
)

// DefaultMaxBytes bounds uploads when no explicit limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// Device is a camera that can be opened for a single snapshot.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera stream. Close releases the device.
type Stream interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Options configures an Adapter.
type Options struct {
	MaxBytes int64
	Logger   zerolog.Logger
}

// Adapter normalizes uploads and snapshots. Camera access through one Adapter
// is exclusive: a second snapshot waits until the first releases the device.
type Adapter struct {
	maxBytes int64
	lease    *semaphore.Weighted
	logger   zerolog.Logger
}

// NewAdapter builds an Adapter.
func NewAdapter(opts Options) *Adapter {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Adapter{
		maxBytes: maxBytes,
		lease:    semaphore.NewWeighted(1),
		logger:   opts.Logger,
	}
}

// MaxBytes returns the configured upload bound.
func (a *Adapter) MaxBytes() int64 {
	return a.maxBytes
}

// FromUpload validates data and wraps it as a SourceImage.
func (a *Adapter) FromUpload(data []byte) (domain.SourceImage, error) {
	if int64(len(data)) > a.maxBytes {
		return domain.SourceImage{}, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, len(data), a.maxBytes)
	}
	cfg, err := imageio.Inspect(data)
	if err != nil {
		return domain.SourceImage{}, err
	}
	if _, err := imageio.Decode(data); err != nil {
		return domain.SourceImage{}, err
	}
	return domain.SourceImage{
		ID:     uuid.NewString(),
		Data:   append([]byte(nil), data...),
		MIME:   cfg.MIME,
		Format: cfg.Format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// ReadUpload reads at most MaxBytes+1 bytes from r so oversized bodies are
// rejected without buffering them whole.
func (a *Adapter) ReadUpload(r io.Reader) (domain.SourceImage, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, a.maxBytes+1))
	if err != nil {
		return domain.SourceImage{}, fmt.Errorf("read upload: %w", err)
	}
	if n > a.maxBytes {
		return domain.SourceImage{}, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrPayloadTooLarge, a.maxBytes)
	}
	return a.FromUpload(buf.Bytes())
}

// FromCameraSnapshot opens dev, grabs one frame and closes the stream on
// every exit path. Devices that cannot be opened surface
// domain.ErrCaptureUnavailable; callers may fall back to FromUpload.
func (a *Adapter) FromCameraSnapshot(ctx context.Context, dev Device) (domain.SourceImage, error) {
	if dev == nil {
		return domain.SourceImage{}, fmt.Errorf("%w: no device", domain.ErrCaptureUnavailable)
	}
	if err := a.lease.Acquire(ctx, 1); err != nil {
		return domain.SourceImage{}, err
	}
	defer a.lease.Release(1)

	stream, err := dev.Open(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.SourceImage{}, ctxErr
		}
		return domain.SourceImage{}, fmt.Errorf("%w: %v", domain.ErrCaptureUnavailable, err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			a.logger.Warn().Err(cerr).Msg("capture: closing stream failed")
		}
	}()

	frame, err := stream.CaptureFrame(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.SourceImage{}, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.SourceImage{}, err
		}
		return domain.SourceImage{}, fmt.Errorf("%w: %v", domain.ErrCaptureUnavailable, err)
	}
	return a.FromUpload(frame)
}
