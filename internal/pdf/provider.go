package pdf

import (
	"fmt"
	"os"

	"github.com/docstructx/docstructx/internal/outline"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultPageHeight is assumed (A4 in points) when the page dimensions
// cannot be read from the document.
const DefaultPageHeight = 842.0

// Provider opens PDF documents for the extraction engine. It combines two
// libraries: ledongthuc/pdf supplies positioned text runs and plain text,
// pdfcpu supplies the document-level view (page count, page dimensions,
// embedded bookmarks).
type Provider struct {
	conf *model.Configuration
}

// NewProvider creates a content provider with relaxed PDF validation
func NewProvider() *Provider {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Provider{conf: conf}
}

// Open opens a document handle. The handle owns two readers over the same
// file and must be closed by the caller.
//
// A pdfcpu parse failure is not fatal: the handle degrades to the
// ledongthuc view alone, with no bookmark metadata and default page
// dimensions, so the layout and pattern stages can still run.
func (p *Provider) Open(path string) (outline.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	doc := &Document{
		path:   path,
		file:   f,
		reader: reader,
		fonts:  make(map[string]*pdf.Font),
	}

	ctxFile, err := os.Open(path)
	if err != nil {
		doc.Close()
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	ctx, err := api.ReadContext(ctxFile, p.conf)
	if err == nil {
		if err := ctx.EnsurePageCount(); err != nil {
			ctx = nil
		}
	} else {
		ctx = nil
	}
	doc.ctxFile = ctxFile
	doc.ctx = ctx

	return doc, nil
}

// Document is a scoped handle on one open PDF
type Document struct {
	path    string
	file    *os.File
	reader  *pdf.Reader
	ctxFile *os.File
	ctx     *model.Context // nil when pdfcpu could not parse the file
	fonts   map[string]*pdf.Font
}

// Close releases both underlying readers
func (d *Document) Close() error {
	if d.ctxFile != nil {
		d.ctxFile.Close()
		d.ctxFile = nil
	}
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}

// PageCount returns the number of pages in the document
func (d *Document) PageCount() int {
	if d.ctx != nil {
		return d.ctx.PageCount
	}
	return d.reader.NumPage()
}

// PageHeight returns the height of the first page in points, or
// DefaultPageHeight when the dimensions are unavailable.
func (d *Document) PageHeight() float64 {
	if d.ctx != nil {
		if dims, err := d.ctx.PageDims(); err == nil && len(dims) > 0 && dims[0].Height > 0 {
			return dims[0].Height
		}
	}
	return DefaultPageHeight
}

// TableOfContents flattens the document's bookmark tree into ordered
// entries; the nesting depth becomes the entry level, starting at 1.
// Documents without bookmarks yield an empty slice.
func (d *Document) TableOfContents() []outline.TOCEntry {
	if d.ctx == nil {
		return nil
	}
	bookmarks, err := pdfcpu.Bookmarks(d.ctx)
	if err != nil {
		return nil
	}
	var entries []outline.TOCEntry
	flattenBookmarks(bookmarks, 1, &entries)
	return entries
}

func flattenBookmarks(bookmarks []pdfcpu.Bookmark, depth int, entries *[]outline.TOCEntry) {
	for _, bm := range bookmarks {
		*entries = append(*entries, outline.TOCEntry{
			Level: depth,
			Title: bm.Title,
			Page:  bm.PageFrom,
		})
		flattenBookmarks(bm.Kids, depth+1, entries)
	}
}

// PlainText returns the raw text of a page (1-based). Pages that cannot
// be decoded yield an empty string rather than an error so a single bad
// page does not poison a whole-document scan.
func (d *Document) PlainText(page int) (string, error) {
	if page < 1 || page > d.reader.NumPage() {
		return "", fmt.Errorf("invalid page number %d (document has %d pages)", page, d.reader.NumPage())
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(d.fonts)
	if err != nil {
		return "", nil
	}
	return text, nil
}

// Spans returns the structured text spans of a page (1-based), assembled
// from the raw positioned runs and ordered top to bottom.
func (d *Document) Spans(page int) ([]outline.Span, error) {
	if page < 1 || page > d.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number %d (document has %d pages)", page, d.reader.NumPage())
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return assembleSpans(p.Content().Text, d.PageHeight()), nil
}
