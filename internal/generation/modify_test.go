package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"styleme/internal/domain"
	"styleme/internal/remote"
)

func generatedFrom(t *testing.T, o *Orchestrator) domain.GeneratedStyle {
	t.Helper()
	batch, err := o.Generate(context.Background(), gradientSource(t, 24, 24), domain.CategoryMale, 1, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return batch[0]
}

func TestModifyAppliesAdjustmentLocally(t *testing.T) {
	o := newTestOrchestrator(remote.Disabled{})
	style := generatedFrom(t, o)
	out, err := o.Modify(context.Background(), style, domain.Adjustment{Length: 2, Color: -1})
	if err != nil {
		t.Fatalf("Modify() error = %v", err)
	}
	if out.ID != style.ID || out.Key != style.Key {
		t.Fatalf("modify changed identity: %+v", out)
	}
	if out.Image == nil || samePixels(t, out.Image.Data, style.Image.Data) {
		t.Fatalf("adjustment was not applied")
	}
}

func TestModifyZeroAdjustmentIsNoop(t *testing.T) {
	o := newTestOrchestrator(nil)
	style := generatedFrom(t, o)
	out, err := o.Modify(context.Background(), style, domain.Adjustment{})
	if err != nil {
		t.Fatalf("Modify() error = %v", err)
	}
	if out.ImageURL != style.ImageURL {
		t.Fatalf("zero adjustment changed the image")
	}
}

func TestModifyURLOnlyStyleFails(t *testing.T) {
	o := newTestOrchestrator(nil)
	style := domain.GeneratedStyle{ID: "b-1", ImageURL: "https://cdn.example.com/x.png"}
	if _, err := o.Modify(context.Background(), style, domain.Adjustment{Volume: 1}); !errors.Is(err, domain.ErrImageDecode) {
		t.Fatalf("Modify() error = %v, want ErrImageDecode", err)
	}
}

func TestModifyPrefersRemote(t *testing.T) {
	var prompt string
	rc := &stubRemote{fn: func(_ context.Context, n int, p string) remote.Result {
		if n == -1 {
			prompt = p
			return remote.Result{ImageURL: "https://cdn.example.com/modified.png"}
		}
		return remote.Failed("generation unavailable")
	}}
	o := New(Options{Remote: rc, Logger: zerolog.Nop()})
	style := generatedFrom(t, o)
	out, err := o.Modify(context.Background(), style, domain.Adjustment{Length: -1})
	if err != nil {
		t.Fatalf("Modify() error = %v", err)
	}
	if out.ImageURL != "https://cdn.example.com/modified.png" || out.Source != domain.SourceRemote {
		t.Fatalf("unexpected result %+v", out)
	}
	if prompt != "make the hair shorter by 1 steps" {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestModificationPrompt(t *testing.T) {
	cases := []struct {
		adj  domain.Adjustment
		want string
	}{
		{domain.Adjustment{}, "keep the hairstyle unchanged"},
		{domain.Adjustment{Length: 2}, "make the hair longer by 2 steps"},
		{domain.Adjustment{Volume: -1.5, Color: 1}, "reduce volume by 1.5 steps, make the colour more vivid by 1 steps"},
	}
	for _, tc := range cases {
		if got := ModificationPrompt(tc.adj); got != tc.want {
			t.Fatalf("ModificationPrompt(%+v) = %q, want %q", tc.adj, got, tc.want)
		}
	}
}
