// Package catalog holds the fixed, ordered list of hairstyle descriptors per
// category. Order is insertion order and never changes between calls.
package catalog

import (
	"styleme/internal/domain"
	"styleme/internal/filter"
)

// Catalog is an immutable set of descriptors keyed by category.
type Catalog struct {
	entries map[domain.StyleCategory][]domain.StyleDescriptor
}

// New builds a catalog from entries. The slices are copied.
func New(entries map[domain.StyleCategory][]domain.StyleDescriptor) *Catalog {
	c := &Catalog{entries: make(map[domain.StyleCategory][]domain.StyleDescriptor, len(entries))}
	for cat, list := range entries {
		c.entries[cat] = append([]domain.StyleDescriptor(nil), list...)
	}
	return c
}

var defaultCatalog = New(map[domain.StyleCategory][]domain.StyleDescriptor{
	domain.CategoryMale:   maleStyles,
	domain.CategoryFemale: femaleStyles,
})

// Default returns the built-in salon catalog.
func Default() *Catalog {
	return defaultCatalog
}

// DescriptorsFor returns the first count descriptors for category, or fewer
// when the category holds fewer entries.
func (c *Catalog) DescriptorsFor(category domain.StyleCategory, count int) []domain.StyleDescriptor {
	if c == nil || count <= 0 {
		return []domain.StyleDescriptor{}
	}
	list := c.entries[category]
	if count > len(list) {
		count = len(list)
	}
	out := make([]domain.StyleDescriptor, count)
	copy(out, list[:count])
	return out
}

// Size reports how many descriptors category holds.
func (c *Catalog) Size(category domain.StyleCategory) int {
	if c == nil {
		return 0
	}
	return len(c.entries[category])
}

// Lookup finds a descriptor by key.
func (c *Catalog) Lookup(category domain.StyleCategory, key string) (domain.StyleDescriptor, bool) {
	if c == nil {
		return domain.StyleDescriptor{}, false
	}
	for _, d := range c.entries[category] {
		if d.Key == key {
			return d, true
		}
	}
	return domain.StyleDescriptor{}, false
}

func style(key string, kind domain.StyleKind, ar, en, prompt, spec string) domain.StyleDescriptor {
	return domain.StyleDescriptor{
		Key:    key,
		Kind:   kind,
		Labels: domain.Labels{domain.LocaleArabic: ar, domain.LocaleEnglish: en},
		Prompt: prompt,
		Filter: filter.MustParse(spec),
	}
}

var maleStyles = []domain.StyleDescriptor{
	style("modern-haircut", domain.KindHaircut, "قصة شعر عصرية", "Modern Haircut",
		"modern fade haircut, professional styling", "brightness(1.1) contrast(1.1)"),
	style("groomed-beard", domain.KindBeard, "لحية مهذبة", "Well-groomed Beard",
		"full beard trim, well-groomed facial hair", "sepia(0.2) contrast(1.15)"),
	style("new-color", domain.KindColor, "لون شعر جديد", "New Hair Color",
		"natural hair color refresh, subtle warm tone", "hue-rotate(30deg) saturate(1.1)"),
	style("gradient-fade", domain.KindHaircut, "قصة فيد متدرجة", "Gradient Fade Cut",
		"short textured crop with a gradient fade", "contrast(1.3) brightness(1.05)"),
	style("modern-style", domain.KindHaircut, "ستايل حديث", "Modern Style",
		"classic quiff hairstyle, textured top", "brightness(0.95) saturate(1.1)"),
	style("classic-cut", domain.KindHaircut, "قصة كلاسيكية", "Classic Cut",
		"side part classic haircut, traditional style", "saturate(0.9) brightness(1.05)"),
	style("modern-pompadour", domain.KindHaircut, "بومبادور عصري", "Modern Pompadour",
		"pompadour hairstyle, vintage modern", "contrast(1.1) sepia(0.1)"),
	style("undercut", domain.KindHaircut, "قصة أندركت", "Undercut Style",
		"undercut with long top, edgy style", "contrast(1.2) saturate(0.85)"),
}

var femaleStyles = []domain.StyleDescriptor{
	style("layered-cut", domain.KindHaircut, "قصة طبقات عصرية", "Modern Layered Cut",
		"layered bob haircut, shoulder length", "brightness(1.1) contrast(1.05)"),
	style("natural-color", domain.KindColor, "لون شعر طبيعي", "Natural Hair Color",
		"balayage highlights, natural color blend", "sepia(0.3) hue-rotate(20deg)"),
	style("elegant-short", domain.KindHaircut, "قصة قصيرة أنيقة", "Elegant Short Cut",
		"pixie cut, short chic style", "contrast(1.2) brightness(1.05)"),
	style("soft-waves", domain.KindHaircut, "تموجات ناعمة", "Soft Waves",
		"beach waves hairstyle, natural texture", "blur(0.3px) brightness(1.08)"),
	style("classic-straight", domain.KindColor, "شعر مفرود كلاسيكي", "Classic Straight Hair",
		"sleek straight hair, glossy natural color", "saturate(0.8) brightness(1.02)"),
	style("colored-highlights", domain.KindColor, "خصل ملونة", "Colored Highlights",
		"ombre hair color, gradient effect", "hue-rotate(45deg) saturate(1.3)"),
	style("long-bob", domain.KindHaircut, "بوب طويل", "Long Bob (Lob)",
		"lob haircut, long bob style", "brightness(1.04) contrast(1.1)"),
	style("curtain-bangs", domain.KindHaircut, "غرة ستارية", "Curtain Bangs",
		"curtain bangs with layers", "saturate(1.15) contrast(1.05)"),
}
