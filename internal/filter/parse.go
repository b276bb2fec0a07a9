package filter

import (
	"fmt"
	"strconv"
	"strings"

	"styleme/internal/domain"
)

// ParseSpec reads the CSS-like notation used by the web front-end, e.g.
// "brightness(1.1) contrast(105%) hue-rotate(20deg) blur(0.3px)". An empty
// string or "none" yields an empty spec.
func ParseSpec(s string) (domain.FilterSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return domain.FilterSpec{}, nil
	}
	var spec domain.FilterSpec
	rest := s
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closeIdx := strings.IndexByte(rest, ')')
		if open <= 0 || closeIdx < open {
			return nil, fmt.Errorf("%w: malformed %q", domain.ErrInvalidFilter, rest)
		}
		name := strings.ToLower(strings.TrimSpace(rest[:open]))
		arg := strings.TrimSpace(rest[open+1 : closeIdx])
		op, err := parseOp(name, arg)
		if err != nil {
			return nil, err
		}
		spec = append(spec, op)
		rest = strings.TrimSpace(rest[closeIdx+1:])
	}
	if err := Validate(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// MustParse is ParseSpec for static tables; it panics on malformed input.
func MustParse(s string) domain.FilterSpec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

func parseOp(name, arg string) (domain.FilterOp, error) {
	kind := domain.FilterKind(name)
	var unit string
	switch kind {
	case domain.FilterBrightness, domain.FilterContrast, domain.FilterSaturate, domain.FilterSepia:
	case domain.FilterHueRotate:
		unit = "deg"
	case domain.FilterBlur:
		unit = "px"
	default:
		return domain.FilterOp{}, fmt.Errorf("%w: unknown function %q", domain.ErrInvalidFilter, name)
	}
	percent := false
	switch {
	case unit == "" && strings.HasSuffix(arg, "%"):
		arg = strings.TrimSuffix(arg, "%")
		percent = true
	case unit != "" && strings.HasSuffix(arg, unit):
		arg = strings.TrimSuffix(arg, unit)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return domain.FilterOp{}, fmt.Errorf("%w: %s(%s)", domain.ErrInvalidFilter, name, arg)
	}
	if percent {
		v /= 100
	}
	return domain.FilterOp{Kind: kind, Amount: v}, nil
}

// Format prints spec in the notation ParseSpec accepts.
func Format(spec domain.FilterSpec) string {
	if len(spec) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(spec))
	for _, op := range spec {
		v := strconv.FormatFloat(op.Amount, 'f', -1, 64)
		switch op.Kind {
		case domain.FilterHueRotate:
			v += "deg"
		case domain.FilterBlur:
			v += "px"
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", op.Kind, v))
	}
	return strings.Join(parts, " ")
}

// FromAdjustment converts editor slider steps into a filter chain. Zero
// fields contribute nothing.
func FromAdjustment(adj domain.Adjustment) domain.FilterSpec {
	spec := domain.FilterSpec{}
	if adj.Length != 0 {
		spec = append(spec, domain.FilterOp{Kind: domain.FilterBrightness, Amount: nonNegative(1 + adj.Length*0.1)})
	}
	if adj.Volume != 0 {
		spec = append(spec, domain.FilterOp{Kind: domain.FilterContrast, Amount: nonNegative(1 + adj.Volume*0.1)})
	}
	if adj.Color != 0 {
		spec = append(spec, domain.FilterOp{Kind: domain.FilterSaturate, Amount: nonNegative(1 + adj.Color*0.2)})
	}
	return spec
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
