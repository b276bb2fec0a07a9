package filter

import (
	"errors"
	"reflect"
	"testing"

	"styleme/internal/domain"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in   string
		want domain.FilterSpec
	}{
		{in: "", want: domain.FilterSpec{}},
		{in: "none", want: domain.FilterSpec{}},
		{
			in: "brightness(1.1) contrast(105%)",
			want: domain.FilterSpec{
				{Kind: domain.FilterBrightness, Amount: 1.1},
				{Kind: domain.FilterContrast, Amount: 1.05},
			},
		},
		{
			in: "sepia(0.3) hue-rotate(20deg)",
			want: domain.FilterSpec{
				{Kind: domain.FilterSepia, Amount: 0.3},
				{Kind: domain.FilterHueRotate, Amount: 20},
			},
		},
		{
			in:   "blur(0.3px)",
			want: domain.FilterSpec{{Kind: domain.FilterBlur, Amount: 0.3}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSpec(tc.in)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error = %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseSpec(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	for _, in := range []string{"glow(2)", "brightness", "brightness(abc)", "sepia(1.5)", "blur(-1px)"} {
		if _, err := ParseSpec(in); !errors.Is(err, domain.ErrInvalidFilter) {
			t.Fatalf("ParseSpec(%q) error = %v, want ErrInvalidFilter", in, err)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	in := "saturate(0.8) brightness(1.02) hue-rotate(45deg) blur(0.3px)"
	spec := MustParse(in)
	if got := Format(spec); got != in {
		t.Fatalf("Format() = %q, want %q", got, in)
	}
}

func TestFromAdjustment(t *testing.T) {
	got := FromAdjustment(domain.Adjustment{Length: 2, Color: -1})
	want := domain.FilterSpec{
		{Kind: domain.FilterBrightness, Amount: 1.2},
		{Kind: domain.FilterSaturate, Amount: 0.8},
	}
	if len(got) != len(want) {
		t.Fatalf("FromAdjustment() = %#v", got)
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || !almostEqual(got[i].Amount, want[i].Amount) {
			t.Fatalf("op %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if spec := FromAdjustment(domain.Adjustment{}); len(spec) != 0 {
		t.Fatalf("zero adjustment produced %#v", spec)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
