package domain

// FilterKind enumerates the supported per-image adjustments.
type FilterKind string

const (
	FilterBrightness FilterKind = "brightness"
	FilterContrast   FilterKind = "contrast"
	FilterSaturate   FilterKind = "saturate"
	FilterSepia      FilterKind = "sepia"
	FilterHueRotate  FilterKind = "hue-rotate"
	FilterBlur       FilterKind = "blur"
)

// FilterOp is a single adjustment. Amount is a factor for brightness,
// contrast and saturate, a 0..1 blend for sepia, degrees for hue-rotate and
// pixels (sigma) for blur.
type FilterOp struct {
	Kind   FilterKind
	Amount float64
}

// FilterSpec is an ordered chain of adjustments applied left to right.
type FilterSpec []FilterOp
