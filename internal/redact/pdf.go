// Package redact physically removes document content under committed
// selections and stamps every page of the output with an attribution
// watermark.
package redact

import "context"

// Color is an RGB fill color with components in [0,1].
type Color struct {
	R, G, B float64
}

// Rect is a rectangle in absolute page coordinates, measured from the page
// origin (no axis flipping happens anywhere in this package).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Point is a position in absolute page coordinates.
type Point struct {
	X, Y float64
}

// Document is the PDF binary collaborator. Marks are registered first and
// applied per page; ApplyMarks must remove the underlying content (text,
// vector and image data) inside the marked areas, not merely paint over it.
type Document interface {
	Encrypted() bool
	PageCount() int
	// PageSize returns the width and height of a 0-based page.
	PageSize(page int) (w, h float64)
	AddRedactMark(page int, r Rect, fill Color) error
	ApplyMarks(ctx context.Context, page int) error
	InsertText(page int, at Point, text string, fontSize float64, c Color) error
	Bytes(ctx context.Context) ([]byte, error)
	Close() error
}

// Opener opens a document from raw bytes. The input slice is never written
// to; serialization always produces a fresh buffer.
type Opener interface {
	Open(ctx context.Context, data []byte) (Document, error)
}
