package geometry

import "math"

// precision is the number of decimal places kept after normalization.
// Normalized coordinates travel through JSON and float math on the way in;
// rounding suppresses the noise so equal rectangles compare equal.
const precision = 1e10

// Rect is a rectangle in page-relative [0,1] coordinates.
// A nil PageNumber means the rectangle applies to every page of the document.
// A nil Confidence means the rectangle was authored manually rather than
// proposed by a model.
type Rect struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	PageNumber *int
	Confidence *float64
}

// Normalize clamps x, y, width and height into [0,1] and shrinks the extent so
// the rectangle stays inside the unit square. It is a total function: out of
// range input is absorbed, never rejected.
func Normalize(x, y, w, h float64) (float64, float64, float64, float64) {
	x = clamp01(x)
	y = clamp01(y)
	w = clamp01(w)
	h = clamp01(h)
	if x+w > 1 {
		w = 1 - x
	}
	if y+h > 1 {
		h = 1 - y
	}
	return round(x), round(y), round(w), round(h)
}

// Normalized returns a copy of r with its coordinates normalized.
func (r Rect) Normalized() Rect {
	r.X, r.Y, r.Width, r.Height = Normalize(r.X, r.Y, r.Width, r.Height)
	return r
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func round(v float64) float64 {
	return math.Round(v*precision) / precision
}
