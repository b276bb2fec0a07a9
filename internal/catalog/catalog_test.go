package catalog

import (
	"testing"

	"styleme/internal/domain"
)

func TestDescriptorsForLengthAndOrder(t *testing.T) {
	c := Default()
	tests := []struct {
		category domain.StyleCategory
		count    int
		want     int
	}{
		{domain.CategoryMale, 6, 6},
		{domain.CategoryFemale, 3, 3},
		{domain.CategoryMale, 100, c.Size(domain.CategoryMale)},
		{domain.CategoryFemale, 0, 0},
		{domain.CategoryFemale, -2, 0},
		{domain.StyleCategory("other"), 4, 0},
	}
	for _, tc := range tests {
		got := c.DescriptorsFor(tc.category, tc.count)
		if len(got) != tc.want {
			t.Fatalf("DescriptorsFor(%s, %d) len = %d, want %d", tc.category, tc.count, len(got), tc.want)
		}
	}

	first := c.DescriptorsFor(domain.CategoryMale, 8)
	second := c.DescriptorsFor(domain.CategoryMale, 8)
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Fatalf("order changed at %d: %s vs %s", i, first[i].Key, second[i].Key)
		}
	}
	if first[0].Key != "modern-haircut" || first[1].Kind != domain.KindBeard {
		t.Fatalf("unexpected leading entries: %s, %s", first[0].Key, first[1].Kind)
	}
}

func TestDescriptorsCarryEveryLocale(t *testing.T) {
	c := Default()
	for _, cat := range []domain.StyleCategory{domain.CategoryMale, domain.CategoryFemale} {
		seen := map[string]bool{}
		for _, d := range c.DescriptorsFor(cat, c.Size(cat)) {
			if seen[d.Key] {
				t.Fatalf("duplicate key %s in %s", d.Key, cat)
			}
			seen[d.Key] = true
			for _, loc := range domain.SupportedLocales {
				if d.Labels[loc] == "" {
					t.Fatalf("%s/%s missing %s label", cat, d.Key, loc)
				}
			}
			if len(d.Filter) == 0 || d.Prompt == "" {
				t.Fatalf("%s/%s missing filter or prompt", cat, d.Key)
			}
		}
	}
}

func TestCallerCannotReorderCatalog(t *testing.T) {
	c := Default()
	got := c.DescriptorsFor(domain.CategoryFemale, 2)
	got[0], got[1] = got[1], got[0]
	again := c.DescriptorsFor(domain.CategoryFemale, 2)
	if again[0].Key != "layered-cut" {
		t.Fatalf("catalog order leaked through returned slice: %s", again[0].Key)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Default().Lookup(domain.CategoryFemale, "soft-waves")
	if !ok || d.Labels.In(domain.LocaleEnglish) != "Soft Waves" {
		t.Fatalf("Lookup() = %+v, %v", d, ok)
	}
	if _, ok := Default().Lookup(domain.CategoryMale, "soft-waves"); ok {
		t.Fatalf("Lookup() crossed categories")
	}
}
