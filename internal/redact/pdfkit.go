package redact

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wudi/pdfkit/contentstream/editor"
	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
)

// watermarkFontName is the resource name the stamp font is registered under.
// Prefixed to keep clear of fonts already present on the page.
const watermarkFontName = "FRdx"

// PDFKitOpener opens documents with the pdfkit parsing pipeline.
type PDFKitOpener struct{}

func NewPDFKitOpener() *PDFKitOpener { return &PDFKitOpener{} }

func (o *PDFKitOpener) Open(ctx context.Context, data []byte) (Document, error) {
	doc, err := ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	return &pdfkitDocument{
		doc:    doc,
		editor: editor.NewEditor(),
		marks:  make(map[int][]pendingMark),
	}, nil
}

type pendingMark struct {
	rect semantic.Rectangle
	fill Color
}

// pdfkitDocument adapts a pdfkit semantic document to the Document contract.
// Redaction marks are collected per page and applied in one pass: first the
// content operations intersecting each mark are removed through the content
// stream editor (the destructive step), then an opaque fill is drawn so the
// removed area reads as deliberately redacted rather than blank.
type pdfkitDocument struct {
	doc    *semantic.Document
	editor *editor.EditorImpl
	marks  map[int][]pendingMark
}

func (d *pdfkitDocument) Encrypted() bool { return d.doc.Encrypted }
func (d *pdfkitDocument) PageCount() int  { return len(d.doc.Pages) }
func (d *pdfkitDocument) Close() error    { return nil }

func (d *pdfkitDocument) PageSize(page int) (float64, float64) {
	if page < 0 || page >= len(d.doc.Pages) {
		return 0, 0
	}
	box := d.doc.Pages[page].MediaBox
	return box.URX - box.LLX, box.URY - box.LLY
}

func (d *pdfkitDocument) AddRedactMark(page int, r Rect, fill Color) error {
	if page < 0 || page >= len(d.doc.Pages) {
		return fmt.Errorf("page %d out of range", page)
	}
	// Engine coordinates are relative to the page origin; shift into the
	// media box in case it does not start at (0,0).
	box := d.doc.Pages[page].MediaBox
	d.marks[page] = append(d.marks[page], pendingMark{
		rect: semantic.Rectangle{
			LLX: box.LLX + r.X0,
			LLY: box.LLY + r.Y0,
			URX: box.LLX + r.X1,
			URY: box.LLY + r.Y1,
		},
		fill: fill,
	})
	return nil
}

func (d *pdfkitDocument) ApplyMarks(ctx context.Context, page int) error {
	if page < 0 || page >= len(d.doc.Pages) {
		return fmt.Errorf("page %d out of range", page)
	}
	p := d.doc.Pages[page]
	marks := d.marks[page]
	for _, m := range marks {
		if err := d.editor.RemoveRect(ctx, p, m.rect); err != nil {
			return fmt.Errorf("remove content: %w", err)
		}
	}
	for _, m := range marks {
		appendFillRect(p, m.rect, m.fill)
	}
	delete(d.marks, page)
	p.Dirty = true
	return nil
}

func (d *pdfkitDocument) InsertText(page int, at Point, text string, fontSize float64, c Color) error {
	if page < 0 || page >= len(d.doc.Pages) {
		return fmt.Errorf("page %d out of range", page)
	}
	p := d.doc.Pages[page]
	ensureWatermarkFont(p)
	box := p.MediaBox

	ops := []semantic.Operation{
		{Operator: "q"},
		{Operator: "BT"},
		{Operator: "rg", Operands: []semantic.Operand{
			semantic.NumberOperand{Value: c.R},
			semantic.NumberOperand{Value: c.G},
			semantic.NumberOperand{Value: c.B},
		}},
		{Operator: "Tf", Operands: []semantic.Operand{
			semantic.NameOperand{Value: watermarkFontName},
			semantic.NumberOperand{Value: fontSize},
		}},
		{Operator: "Tm", Operands: []semantic.Operand{
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: box.LLX + at.X},
			semantic.NumberOperand{Value: box.LLY + at.Y},
		}},
		{Operator: "Tj", Operands: []semantic.Operand{
			semantic.StringOperand{Value: []byte(text)},
		}},
		{Operator: "ET"},
		{Operator: "Q"},
	}
	p.Contents = append(p.Contents, semantic.ContentStream{Operations: ops})
	p.Dirty = true
	return nil
}

func (d *pdfkitDocument) Bytes(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := writer.NewWriter().Write(ctx, d.doc, &buf, writer.Config{}); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// appendFillRect draws an opaque rectangle in its own content stream.
func appendFillRect(p *semantic.Page, r semantic.Rectangle, fill Color) {
	ops := []semantic.Operation{
		{Operator: "q"},
		{Operator: "rg", Operands: []semantic.Operand{
			semantic.NumberOperand{Value: fill.R},
			semantic.NumberOperand{Value: fill.G},
			semantic.NumberOperand{Value: fill.B},
		}},
		{Operator: "re", Operands: []semantic.Operand{
			semantic.NumberOperand{Value: r.LLX},
			semantic.NumberOperand{Value: r.LLY},
			semantic.NumberOperand{Value: r.URX - r.LLX},
			semantic.NumberOperand{Value: r.URY - r.LLY},
		}},
		{Operator: "f"},
		{Operator: "Q"},
	}
	p.Contents = append(p.Contents, semantic.ContentStream{Operations: ops})
}

func ensureWatermarkFont(p *semantic.Page) {
	if p.Resources == nil {
		p.Resources = &semantic.Resources{}
	}
	if p.Resources.Fonts == nil {
		p.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if _, ok := p.Resources.Fonts[watermarkFontName]; !ok {
		p.Resources.Fonts[watermarkFontName] = &semantic.Font{BaseFont: "Helvetica"}
	}
}
