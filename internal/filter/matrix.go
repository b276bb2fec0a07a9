package filter

import (
	"image/color"
	"math"
)

// matrix is a row-major 3x3 colour transform over RGB; alpha passes through.
// The coefficients follow the Filter Effects colour matrices browsers use for
// the same CSS functions.
type matrix [9]float64

func (m matrix) apply(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp(m[0]*r + m[1]*g + m[2]*b),
		G: clamp(m[3]*r + m[4]*g + m[5]*b),
		B: clamp(m[6]*r + m[7]*g + m[8]*b),
		A: c.A,
	}
}

func saturateMatrix(s float64) matrix {
	return matrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

func sepiaMatrix(amount float64) matrix {
	k := 1 - amount
	return matrix{
		0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k,
		0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k,
		0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k,
	}
}

func hueRotateMatrix(deg float64) matrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return matrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
}
