package redact

import (
	"testing"
	"time"
)

func TestWatermarkTextCarriesYear(t *testing.T) {
	wm := DefaultWatermark()
	got := wm.Text(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	if got != "Redacted with Redactify 2026" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestWatermarkAnchors(t *testing.T) {
	wm := Watermark{Anchor: AnchorBottomLeft, Padding: 10, FontSize: 10}
	text := "mark" // estimated width 20

	tests := []struct {
		anchor Anchor
		want   Point
	}{
		{AnchorBottomLeft, Point{X: 10, Y: 10}},
		{AnchorBottomRight, Point{X: 600 - 10 - 20, Y: 10}},
		{AnchorTopLeft, Point{X: 10, Y: 800 - 10 - 10}},
		{AnchorTopRight, Point{X: 600 - 10 - 20, Y: 800 - 10 - 10}},
		{AnchorCenter, Point{X: (600 - 20) / 2, Y: (800 - 10) / 2}},
	}
	for _, tt := range tests {
		wm.Anchor = tt.anchor
		if got := wm.position(600, 800, text); got != tt.want {
			t.Fatalf("position(%s) = %+v, want %+v", tt.anchor, got, tt.want)
		}
	}
}
