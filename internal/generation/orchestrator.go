// Package generation turns one source photo into a batch of style variants.
// Each catalog entry is first offered to the remote service; any entry the
// remote cannot serve is rendered locally by the filter engine instead.
package generation

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"styleme/internal/catalog"
	"styleme/internal/domain"
	"styleme/internal/filter"
	"styleme/internal/imageio"
	"styleme/internal/remote"
	"styleme/internal/storage"
)

const (
	DefaultPacing           = 500 * time.Millisecond
	DefaultProgressInterval = 400 * time.Millisecond
)

// progressSteps are the cosmetic percentages emitted while a batch renders.
// They do not track real completion; 100 is sent only when the batch is done.
var progressSteps = []int{15, 30, 45, 60, 75, 85, 95}

// Confidence ranges for the two paths. Neither is backed by a model score.
var (
	remoteConfidence = confidenceRange{min: 0.85, max: 0.95}
	localConfidence  = confidenceRange{min: 0.75, max: 0.90}
)

type confidenceRange struct {
	min, max float64
}

func (r confidenceRange) draw(rnd func() float64) float64 {
	v := r.min + rnd()*(r.max-r.min)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Publisher turns a rendered image into the URL stored on a GeneratedStyle.
type Publisher interface {
	Publish(ctx context.Context, key string, img domain.Image) (string, error)
}

// Options wires an Orchestrator. Pacing and ProgressInterval are used as
// given; zero disables the pause between remote calls and the synthetic
// ticks respectively.
type Options struct {
	Catalog          *catalog.Catalog
	Remote           remote.Client
	Publisher        Publisher
	Pacing           time.Duration
	ProgressInterval time.Duration
	Rand             func() float64
	Logger           zerolog.Logger
}

// Orchestrator produces generation batches.
type Orchestrator struct {
	catalog          *catalog.Catalog
	remote           remote.Client
	publisher        Publisher
	pacing           time.Duration
	progressInterval time.Duration
	rand             func() float64
	logger           zerolog.Logger
}

// New builds an Orchestrator. A nil Remote means every entry renders locally.
func New(opts Options) *Orchestrator {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	pub := opts.Publisher
	if pub == nil {
		pub = storage.DataURIPublisher{}
	}
	return &Orchestrator{
		catalog:          cat,
		remote:           opts.Remote,
		publisher:        pub,
		pacing:           opts.Pacing,
		progressInterval: opts.ProgressInterval,
		rand:             rnd,
		logger:           opts.Logger,
	}
}

// Catalog exposes the catalog the orchestrator draws from.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Remote returns the configured remote client, or nil.
func (o *Orchestrator) Remote() remote.Client {
	return o.remote
}

func (o *Orchestrator) remoteEnabled() bool {
	if o.remote == nil {
		return false
	}
	_, disabled := o.remote.(remote.Disabled)
	return !disabled
}

// Generate renders up to count styles of category from src, in catalog order.
//
// progress, when non-nil, receives non-decreasing percentages ending in 100
// on success. Sends block until received or ctx is done; the channel is
// never closed here.
func (o *Orchestrator) Generate(ctx context.Context, src domain.SourceImage, category domain.StyleCategory, count int, progress chan<- int) ([]domain.GeneratedStyle, error) {
	if o.catalog.Size(category) == 0 {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNoStylesAvailable, category)
	}
	descriptors := o.catalog.DescriptorsFor(category, count)
	decoded, err := imageio.Decode(src.Data)
	if err != nil {
		return nil, err
	}

	stopTicks := o.startTicks(ctx, progress)
	batch, err := o.render(ctx, src, decoded, descriptors)
	stopTicks()
	if err != nil {
		return nil, err
	}
	if progress != nil {
		select {
		case progress <- 100:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return batch, nil
}

func (o *Orchestrator) render(ctx context.Context, src domain.SourceImage, decoded image.Image, descriptors []domain.StyleDescriptor) ([]domain.GeneratedStyle, error) {
	batchID := uuid.NewString()
	log := o.logger.With().Str("batch_id", batchID).Logger()
	batch := make([]domain.GeneratedStyle, 0, len(descriptors))
	useRemote := o.remoteEnabled()

	for i, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if useRemote && i > 0 && o.pacing > 0 {
			if err := sleep(ctx, o.pacing); err != nil {
				return nil, err
			}
		}

		style := domain.GeneratedStyle{
			ID:     batchID + "-" + strconv.Itoa(i+1),
			Kind:   d.Kind,
			Labels: d.Labels,
			Key:    d.Key,
		}
		key := batchID + "/" + style.ID

		served := false
		if useRemote {
			res := o.remote.RequestStyle(ctx, src, d.Prompt)
			switch {
			case res.OK():
				if err := o.fromRemote(ctx, &style, key, res); err != nil {
					log.Warn().Err(err).Str("style", d.Key).Msg("publishing remote style failed, rendering locally")
				} else {
					served = true
				}
			default:
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				log.Warn().Str("style", d.Key).Str("reason", res.Err.Reason).Msg("remote style failed, rendering locally")
			}
		}
		if !served {
			if err := o.fromFilter(ctx, &style, key, decoded, d.Filter); err != nil {
				return nil, err
			}
		}
		batch = append(batch, style)
	}
	log.Info().Int("count", len(batch)).Msg("generation batch ready")
	return batch, nil
}

func (o *Orchestrator) fromRemote(ctx context.Context, style *domain.GeneratedStyle, key string, res remote.Result) error {
	style.Source = domain.SourceRemote
	style.Confidence = remoteConfidence.draw(o.rand)
	img, ok := res.Image()
	if !ok {
		style.ImageURL = res.ImageURL
		return nil
	}
	cfg, err := imageio.Inspect(img.Data)
	if err != nil {
		return fmt.Errorf("remote payload: %w", err)
	}
	img.Width, img.Height = cfg.Width, cfg.Height
	url, err := o.publisher.Publish(ctx, key, img)
	if err != nil {
		return err
	}
	style.ImageURL = url
	style.Image = &img
	return nil
}

func (o *Orchestrator) fromFilter(ctx context.Context, style *domain.GeneratedStyle, key string, decoded image.Image, spec domain.FilterSpec) error {
	if err := filter.Validate(spec); err != nil {
		return err
	}
	img, err := encode(filter.Render(decoded, spec))
	if err != nil {
		return err
	}
	url, err := o.publisher.Publish(ctx, key, img)
	if err != nil {
		return fmt.Errorf("publish %s: %w", style.ID, err)
	}
	style.Source = domain.SourceLocal
	style.Confidence = localConfidence.draw(o.rand)
	style.ImageURL = url
	style.Image = &img
	return nil
}

// startTicks emits the synthetic progress steps on the configured interval.
// The returned func stops the ticker and waits for it to exit, so nothing
// is sent after it returns.
func (o *Orchestrator) startTicks(ctx context.Context, progress chan<- int) func() {
	if progress == nil || o.progressInterval <= 0 {
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(o.progressInterval)
		defer ticker.Stop()
		for _, step := range progressSteps {
			select {
			case <-ticker.C:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
			select {
			case progress <- step:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

func encode(img *image.NRGBA) (domain.Image, error) {
	data, err := imageio.EncodePNG(img)
	if err != nil {
		return domain.Image{}, err
	}
	b := img.Bounds()
	return domain.Image{Data: data, MIME: "image/png", Width: b.Dx(), Height: b.Dy()}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
