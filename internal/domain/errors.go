package domain

import (
	"errors"
	"fmt"
)

var (
	ErrImageDecode        = errors.New("image decode failed")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrCaptureUnavailable = errors.New("capture device unavailable")
	ErrNoStylesAvailable  = errors.New("no styles available")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrUnknownCategory    = errors.New("unknown style category")
	ErrInvalidFilter      = errors.New("invalid filter spec")
	ErrNoSource           = errors.New("no source image")
	ErrNoSelection        = errors.New("no style selected")
	ErrStaleGeneration    = errors.New("generation superseded")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotFound           = errors.New("not found")
)

// RemoteError is the normalized failure of a remote generation call. It never
// escapes the orchestrator; every RemoteError triggers a local fallback.
type RemoteError struct {
	Reason string
}

func (e *RemoteError) Error() string {
	if e == nil || e.Reason == "" {
		return "remote generation failed"
	}
	return fmt.Sprintf("remote generation failed: %s", e.Reason)
}

// NewRemoteError builds a RemoteError from a formatted reason.
func NewRemoteError(format string, args ...any) *RemoteError {
	return &RemoteError{Reason: fmt.Sprintf(format, args...)}
}
