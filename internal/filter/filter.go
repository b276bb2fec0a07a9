// Package filter renders the local fallback variants: a chain of colour
// adjustments and blur applied to a copy of the source image.
package filter

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"styleme/internal/domain"
	"styleme/internal/imageio"
)

// Apply renders spec onto a copy of src and returns a PNG of the same
// dimensions. The source buffer is never written to.
func Apply(src domain.SourceImage, spec domain.FilterSpec) (domain.Image, error) {
	if err := Validate(spec); err != nil {
		return domain.Image{}, err
	}
	img, err := imageio.Decode(src.Data)
	if err != nil {
		return domain.Image{}, err
	}
	out := Render(img, spec)
	data, err := imageio.EncodePNG(out)
	if err != nil {
		return domain.Image{}, err
	}
	b := out.Bounds()
	return domain.Image{Data: data, MIME: "image/png", Width: b.Dx(), Height: b.Dy()}, nil
}

// Render applies spec to img and returns a new buffer. spec must be valid.
func Render(img image.Image, spec domain.FilterSpec) *image.NRGBA {
	out := imaging.Clone(img)
	for _, op := range spec {
		switch op.Kind {
		case domain.FilterBlur:
			if op.Amount > 0 {
				out = imaging.Blur(out, op.Amount)
			}
		default:
			fn := pixelFunc(op)
			if fn != nil {
				out = imaging.AdjustFunc(out, fn)
			}
		}
	}
	return out
}

// Validate rejects unknown kinds and out-of-range amounts.
func Validate(spec domain.FilterSpec) error {
	for _, op := range spec {
		if math.IsNaN(op.Amount) || math.IsInf(op.Amount, 0) {
			return fmt.Errorf("%w: %s amount is not finite", domain.ErrInvalidFilter, op.Kind)
		}
		switch op.Kind {
		case domain.FilterBrightness, domain.FilterContrast, domain.FilterSaturate, domain.FilterBlur:
			if op.Amount < 0 {
				return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidFilter, op.Kind)
			}
		case domain.FilterSepia:
			if op.Amount < 0 || op.Amount > 1 {
				return fmt.Errorf("%w: sepia must be within [0,1]", domain.ErrInvalidFilter)
			}
		case domain.FilterHueRotate:
		default:
			return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidFilter, op.Kind)
		}
	}
	return nil
}

func pixelFunc(op domain.FilterOp) func(color.NRGBA) color.NRGBA {
	switch op.Kind {
	case domain.FilterBrightness:
		a := op.Amount
		return func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{R: clamp(float64(c.R) * a), G: clamp(float64(c.G) * a), B: clamp(float64(c.B) * a), A: c.A}
		}
	case domain.FilterContrast:
		a := op.Amount
		return func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: clamp((float64(c.R)-128)*a + 128),
				G: clamp((float64(c.G)-128)*a + 128),
				B: clamp((float64(c.B)-128)*a + 128),
				A: c.A,
			}
		}
	case domain.FilterSaturate:
		return saturateMatrix(op.Amount).apply
	case domain.FilterSepia:
		return sepiaMatrix(op.Amount).apply
	case domain.FilterHueRotate:
		return hueRotateMatrix(op.Amount).apply
	}
	return nil
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
