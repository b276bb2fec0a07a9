package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"styleme/internal/domain"
)

const (
	defaultGeminiModel   = "gemini-2.5-flash-image"
	defaultGeminiTimeout = 60 * time.Second
)

// contentGenerator is the slice of *genai.Models the Gemini backend needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOptions configures the Gemini backend.
type GeminiOptions struct {
	APIKey string
	Model  string
	// Timeout bounds each GenerateContent call.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// GeminiClient renders styles with a Gemini image model. The source photo
// and the prompt travel as two parts of a single user turn; the first inline
// image of the answer is returned.
type GeminiClient struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewGeminiClient dials the Gemini API.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("remote: gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c := newGeminiClient(client.Models, opts.Model, opts.Logger)
	if opts.Timeout > 0 {
		c.timeout = opts.Timeout
	}
	return c, nil
}

func newGeminiClient(models contentGenerator, model string, logger zerolog.Logger) *GeminiClient {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{models: models, model: model, timeout: defaultGeminiTimeout, logger: logger}
}

func (c *GeminiClient) Name() string { return "gemini:" + c.model }

func (c *GeminiClient) RequestStyle(ctx context.Context, img domain.SourceImage, prompt string) Result {
	return c.generate(ctx, img, prompt)
}

func (c *GeminiClient) Modify(ctx context.Context, img domain.SourceImage, prompt string) Result {
	return c.generate(ctx, img, "Modify the hairstyle in this photo: "+prompt)
}

// Health reports the configured model; it does not call the API.
func (c *GeminiClient) Health(context.Context) (HealthStatus, error) {
	return HealthStatus{
		Status:             "healthy",
		HairModelAvailable: true,
		Message:            "gemini model " + c.model,
	}, nil
}

func (c *GeminiClient) generate(ctx context.Context, img domain.SourceImage, prompt string) Result {
	if img.Empty() {
		return Failed("empty source image")
	}
	mime := img.MIME
	if mime == "" {
		mime = "image/png"
	}
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(img.Data, mime),
		},
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.models.GenerateContent(ctx, c.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: float32Ptr(0.4),
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("model", c.model).Msg("gemini request failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return Failed("timeout")
		}
		return Failed("gemini: %v", err)
	}
	if resp == nil {
		return Failed("gemini returned no response")
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			outMIME := part.InlineData.MIMEType
			if outMIME == "" {
				outMIME = "image/png"
			}
			data := part.InlineData.Data
			return Result{ImageURL: domain.EncodeDataURI(outMIME, data), Data: data, MIME: outMIME}
		}
	}
	return Failed("gemini returned no image")
}

var _ Client = (*GeminiClient)(nil)

func float32Ptr(v float32) *float32 {
	return &v
}
