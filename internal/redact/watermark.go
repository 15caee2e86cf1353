package redact

import (
	"fmt"
	"time"
)

// Anchor names where on the page the watermark sits.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top_left"
	AnchorTopRight    Anchor = "top_right"
	AnchorBottomLeft  Anchor = "bottom_left"
	AnchorBottomRight Anchor = "bottom_right"
	AnchorCenter      Anchor = "center"
)

// WatermarkLabel is the static part of the attribution stamp; the current
// year is appended at redaction time.
const WatermarkLabel = "Redacted with Redactify"

// Watermark configures the attribution stamp applied to every output page.
type Watermark struct {
	Label    string
	Anchor   Anchor
	Padding  float64
	FontSize float64
	Color    Color
}

// DefaultWatermark is the stamp used when the caller does not override it.
func DefaultWatermark() Watermark {
	return Watermark{
		Label:    WatermarkLabel,
		Anchor:   AnchorBottomRight,
		Padding:  12,
		FontSize: 9,
		Color:    Color{R: 0.55, G: 0.55, B: 0.55},
	}
}

// Text returns the full stamp text for the current year.
func (w Watermark) Text(now time.Time) string {
	label := w.Label
	if label == "" {
		label = WatermarkLabel
	}
	return fmt.Sprintf("%s %d", label, now.Year())
}

// position computes the text origin for a page of the given size. Text width
// is estimated from the font size; Helvetica averages roughly half an em per
// glyph, which is close enough for corner placement.
func (w Watermark) position(pageW, pageH float64, text string) Point {
	textW := 0.5 * w.FontSize * float64(len(text))
	pad := w.Padding

	switch w.Anchor {
	case AnchorTopLeft:
		return Point{X: pad, Y: pageH - pad - w.FontSize}
	case AnchorTopRight:
		return Point{X: pageW - pad - textW, Y: pageH - pad - w.FontSize}
	case AnchorBottomLeft:
		return Point{X: pad, Y: pad}
	case AnchorCenter:
		return Point{X: (pageW - textW) / 2, Y: (pageH - w.FontSize) / 2}
	default: // bottom right
		return Point{X: pageW - pad - textW, Y: pad}
	}
}
