// Package remote talks to the external hairstyle service. Every call returns a
// Result; transport and protocol failures are folded into a RemoteError so the
// caller can decide on a fallback without inspecting error chains.
package remote

import (
	"context"

	"styleme/internal/domain"
)

// Result is the outcome of one remote call. Exactly one of the success
// fields (ImageURL or Data) or Err is meaningful.
type Result struct {
	ImageURL string
	Data     []byte
	MIME     string
	Err      *domain.RemoteError
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil && (r.ImageURL != "" || len(r.Data) > 0)
}

// Image returns the inline payload when the remote answered with bytes.
func (r Result) Image() (domain.Image, bool) {
	if len(r.Data) == 0 {
		return domain.Image{}, false
	}
	return domain.Image{Data: r.Data, MIME: r.MIME}, true
}

// Failed builds a failure Result.
func Failed(format string, args ...any) Result {
	return Result{Err: domain.NewRemoteError(format, args...)}
}

// fromImageRef turns the image field of a response (URL or data URI) into a
// Result.
func fromImageRef(ref string) Result {
	if ref == "" {
		return Failed("response carried no image")
	}
	if mime, data, ok := domain.DecodeDataURI(ref); ok {
		if len(data) == 0 {
			return Failed("response carried an empty image")
		}
		return Result{ImageURL: ref, Data: data, MIME: mime}
	}
	return Result{ImageURL: ref}
}

// HealthStatus mirrors the remote service's health payload.
type HealthStatus struct {
	Status             string `json:"status"`
	DeepfaceAvailable  bool   `json:"deepface_available"`
	HairModelAvailable bool   `json:"hair_model_available"`
	Message            string `json:"message,omitempty"`
}

// Healthy reports whether the service can serve generation requests.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}

// Client is the contract implemented by every remote backend.
type Client interface {
	// RequestStyle renders prompt onto img. A single attempt; no retry.
	RequestStyle(ctx context.Context, img domain.SourceImage, prompt string) Result
	// Modify applies a free-text modification to an already generated image.
	Modify(ctx context.Context, img domain.SourceImage, prompt string) Result
	Health(ctx context.Context) (HealthStatus, error)
	Name() string
}

// Disabled fails every request so callers always take their local path.
type Disabled struct{}

func (Disabled) RequestStyle(context.Context, domain.SourceImage, string) Result {
	return Failed("disabled")
}

func (Disabled) Modify(context.Context, domain.SourceImage, string) Result {
	return Failed("disabled")
}

func (Disabled) Health(context.Context) (HealthStatus, error) {
	return HealthStatus{Status: "disabled", Message: "remote generation is not configured"}, nil
}

func (Disabled) Name() string { return "none" }

var _ Client = Disabled{}
