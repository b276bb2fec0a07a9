package generation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"styleme/internal/domain"
	"styleme/internal/filter"
	"styleme/internal/imageio"
)

// Modify re-renders an already generated style with the editor adjustment.
// The remote service is asked first with a prompt describing the change;
// when it cannot help, the adjustment is applied locally as a filter chain.
// Styles known only by URL cannot be modified and fail with ErrImageDecode.
func (o *Orchestrator) Modify(ctx context.Context, style domain.GeneratedStyle, adj domain.Adjustment) (domain.GeneratedStyle, error) {
	if style.Image == nil || len(style.Image.Data) == 0 {
		return domain.GeneratedStyle{}, fmt.Errorf("%w: style %s has no local image", domain.ErrImageDecode, style.ID)
	}
	if adj.IsZero() {
		return style, nil
	}
	out := style
	out.Image = nil
	key := "modified/" + style.ID + "-" + adjustmentKey(adj)

	if o.remoteEnabled() {
		src := domain.SourceImage{ID: style.ID, Data: style.Image.Data, MIME: style.Image.MIME}
		res := o.remote.Modify(ctx, src, ModificationPrompt(adj))
		if res.OK() {
			if err := o.fromRemote(ctx, &out, key, res); err == nil {
				out.Confidence = style.Confidence
				return out, nil
			}
		} else {
			if err := ctx.Err(); err != nil {
				return domain.GeneratedStyle{}, err
			}
			o.logger.Warn().Str("style", style.ID).Str("reason", res.Err.Reason).Msg("remote modify failed, adjusting locally")
		}
		out = style
		out.Image = nil
	}

	decoded, err := imageio.Decode(style.Image.Data)
	if err != nil {
		return domain.GeneratedStyle{}, err
	}
	img, err := encode(filter.Render(decoded, filter.FromAdjustment(adj)))
	if err != nil {
		return domain.GeneratedStyle{}, err
	}
	url, err := o.publisher.Publish(ctx, key, img)
	if err != nil {
		return domain.GeneratedStyle{}, fmt.Errorf("publish %s: %w", style.ID, err)
	}
	out.ImageURL = url
	out.Image = &img
	out.Source = domain.SourceLocal
	return out, nil
}

// ModificationPrompt describes an adjustment in words for the remote model.
func ModificationPrompt(adj domain.Adjustment) string {
	var parts []string
	describe := func(v float64, more, less string) {
		switch {
		case v > 0:
			parts = append(parts, fmt.Sprintf("%s by %g steps", more, v))
		case v < 0:
			parts = append(parts, fmt.Sprintf("%s by %g steps", less, math.Abs(v)))
		}
	}
	describe(adj.Length, "make the hair longer", "make the hair shorter")
	describe(adj.Volume, "add volume", "reduce volume")
	describe(adj.Color, "make the colour more vivid", "make the colour more muted")
	if len(parts) == 0 {
		return "keep the hairstyle unchanged"
	}
	return strings.Join(parts, ", ")
}

func adjustmentKey(adj domain.Adjustment) string {
	return fmt.Sprintf("l%g_v%g_c%g", adj.Length, adj.Volume, adj.Color)
}
