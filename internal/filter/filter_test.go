package filter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"styleme/internal/domain"
	"styleme/internal/imageio"
)

func gradientSource(t *testing.T, w, h int) domain.SourceImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 + x*2), G: uint8(60 + y), B: uint8(90 + (x+y)%80), A: 255})
		}
	}
	data, err := imageio.EncodePNG(img)
	if err != nil {
		t.Fatalf("encode source: %v", err)
	}
	return domain.SourceImage{Data: data, MIME: "image/png", Format: "png", Width: w, Height: h}
}

func decodeNRGBA(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, err := imageio.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := image.NewNRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func TestApplyIsDeterministic(t *testing.T) {
	src := gradientSource(t, 40, 30)
	spec := MustParse("sepia(0.3) hue-rotate(20deg) blur(0.3px) brightness(1.08)")

	first, err := Apply(src, spec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	second, err := Apply(src, spec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatalf("Apply() produced different bytes for identical input")
	}
	if first.Width != 40 || first.Height != 30 {
		t.Fatalf("dimensions = %dx%d, want 40x30", first.Width, first.Height)
	}
	if first.MIME != "image/png" {
		t.Fatalf("MIME = %q", first.MIME)
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	src := gradientSource(t, 16, 16)
	before := append([]byte(nil), src.Data...)
	if _, err := Apply(src, MustParse("contrast(1.3) saturate(1.4)")); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bytes.Equal(before, src.Data) {
		t.Fatalf("source bytes were modified")
	}
}

func TestApplyChannelMath(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 200, B: 250, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 128, B: 0, A: 128})
	data, err := imageio.EncodePNG(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	src := domain.SourceImage{Data: data}

	tests := []struct {
		name string
		spec string
		want [2]color.NRGBA
	}{
		{
			name: "brightness clamps",
			spec: "brightness(1.1)",
			want: [2]color.NRGBA{{R: 110, G: 220, B: 255, A: 255}, {R: 11, G: 141, B: 0, A: 128}},
		},
		{
			name: "contrast around midpoint",
			spec: "contrast(2)",
			want: [2]color.NRGBA{{R: 72, G: 255, B: 255, A: 255}, {R: 0, G: 128, B: 0, A: 128}},
		},
		{
			name: "zero saturation is greyscale",
			spec: "saturate(0)",
			want: [2]color.NRGBA{{R: 182, G: 182, B: 182, A: 255}, {R: 94, G: 94, B: 94, A: 128}},
		},
		{
			name: "identity hue rotation",
			spec: "hue-rotate(0deg)",
			want: [2]color.NRGBA{{R: 100, G: 200, B: 250, A: 255}, {R: 10, G: 128, B: 0, A: 128}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Apply(src, MustParse(tc.spec))
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			got := decodeNRGBA(t, out.Data)
			for i, want := range tc.want {
				if c := got.NRGBAAt(i, 0); c != want {
					t.Fatalf("pixel %d = %+v, want %+v", i, c, want)
				}
			}
		})
	}
}

func TestApplyRejectsUndecodableSource(t *testing.T) {
	_, err := Apply(domain.SourceImage{Data: []byte("definitely not pixels")}, MustParse("brightness(1.1)"))
	if !errors.Is(err, domain.ErrImageDecode) {
		t.Fatalf("Apply() error = %v, want ErrImageDecode", err)
	}
}

func TestApplyRejectsInvalidSpec(t *testing.T) {
	src := gradientSource(t, 4, 4)
	_, err := Apply(src, domain.FilterSpec{{Kind: domain.FilterSepia, Amount: 2}})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("Apply() error = %v, want ErrInvalidFilter", err)
	}
}
