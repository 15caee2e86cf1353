package redact

import (
	"context"
	"fmt"
	"time"

	"redactify/internal/selection"
)

// markFill is the opaque fill drawn over every redacted area.
var markFill = Color{R: 0, G: 0, B: 0}

// Engine turns original PDF bytes plus committed selections into redacted
// bytes. It holds no per-call state; every invocation is independent and the
// input buffer is never mutated.
type Engine struct {
	opener    Opener
	watermark Watermark
	now       func() time.Time
}

// NewEngine builds an engine on top of a PDF collaborator.
func NewEngine(opener Opener, wm Watermark) *Engine {
	if wm == (Watermark{}) {
		wm = DefaultWatermark()
	}
	return &Engine{opener: opener, watermark: wm, now: time.Now}
}

// Redact removes the content under every selection and stamps the watermark
// on every page. The call is all-or-nothing: any failure returns a
// *RedactionError and no output bytes, and validation runs before the first
// mutation. The caller is responsible for handing in only committed
// selections; anything else is rejected here as a contract violation.
func (e *Engine) Redact(ctx context.Context, original []byte, selections []selection.Selection) ([]byte, error) {
	for _, sel := range selections {
		if sel.State != selection.StateCommitted {
			return nil, redactionErrf("selection %s is %s, only committed selections are redactable", sel.ID, sel.State)
		}
	}

	doc, err := e.opener.Open(ctx, original)
	if err != nil {
		return nil, redactionErr(fmt.Errorf("open document: %w", err))
	}
	defer doc.Close()

	if doc.Encrypted() {
		return nil, redactionErr(ErrEncrypted)
	}
	pageCount := doc.PageCount()
	if pageCount == 0 {
		return nil, redactionErr(ErrNoPages)
	}

	// Bucket selections by target page up front so an out-of-range page is
	// caught before anything is touched.
	byPage := make(map[int][]selection.Selection)
	for _, sel := range selections {
		if sel.PageNumber == nil {
			for p := 0; p < pageCount; p++ {
				byPage[p] = append(byPage[p], sel)
			}
			continue
		}
		p := *sel.PageNumber
		if p < 0 || p >= pageCount {
			return nil, redactionErr(fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, p, pageCount))
		}
		byPage[p] = append(byPage[p], sel)
	}

	for page := 0; page < pageCount; page++ {
		sels := byPage[page]
		if len(sels) == 0 {
			continue
		}
		w, h := doc.PageSize(page)
		for _, sel := range sels {
			r := Rect{
				X0: sel.X * w,
				Y0: sel.Y * h,
				X1: (sel.X + sel.Width) * w,
				Y1: (sel.Y + sel.Height) * h,
			}
			if err := doc.AddRedactMark(page, r, markFill); err != nil {
				return nil, redactionErr(fmt.Errorf("mark page %d: %w", page, err))
			}
		}
		if err := doc.ApplyMarks(ctx, page); err != nil {
			return nil, redactionErr(fmt.Errorf("apply marks on page %d: %w", page, err))
		}
	}

	text := e.watermark.Text(e.now())
	for page := 0; page < pageCount; page++ {
		w, h := doc.PageSize(page)
		at := e.watermark.position(w, h, text)
		if err := doc.InsertText(page, at, text, e.watermark.FontSize, e.watermark.Color); err != nil {
			return nil, redactionErr(fmt.Errorf("watermark page %d: %w", page, err))
		}
	}

	out, err := doc.Bytes(ctx)
	if err != nil {
		return nil, redactionErr(fmt.Errorf("serialize document: %w", err))
	}
	return out, nil
}
