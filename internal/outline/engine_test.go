package outline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument is an in-memory Document for exercising the cascade
// without real files.
type fakeDocument struct {
	toc        []TOCEntry
	pages      int
	pageHeight float64
	plainText  map[int]string
	spans      map[int][]Span

	plainTextErr error
	spansErr     error
	panicOnTOC   bool

	closed    int
	spanCalls int
}

func (d *fakeDocument) Close() error {
	d.closed++
	return nil
}

func (d *fakeDocument) TableOfContents() []TOCEntry {
	if d.panicOnTOC {
		panic("corrupt outline dictionary")
	}
	return d.toc
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) PageHeight() float64 {
	if d.pageHeight == 0 {
		return 842.0
	}
	return d.pageHeight
}

func (d *fakeDocument) PlainText(page int) (string, error) {
	if d.plainTextErr != nil {
		return "", d.plainTextErr
	}
	return d.plainText[page], nil
}

func (d *fakeDocument) Spans(page int) ([]Span, error) {
	d.spanCalls++
	if d.spansErr != nil {
		return nil, d.spansErr
	}
	return d.spans[page], nil
}

type fakeProvider struct {
	doc     *fakeDocument
	openErr error
	opens   int
}

func (p *fakeProvider) Open(path string) (Document, error) {
	p.opens++
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.doc, nil
}

func manyTOCEntries(n int) []TOCEntry {
	entries := make([]TOCEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, TOCEntry{Level: 1, Title: "Chapter " + string(rune('A'+i%26)) + " overview", Page: i + 1})
	}
	return entries
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(&fakeProvider{doc: &fakeDocument{pages: 1}})
	require.NotNil(t, engine)
	assert.Len(t, engine.strategies, 3)
	assert.Equal(t, "toc", engine.strategies[0].name())
	assert.Equal(t, "heuristic", engine.strategies[1].name())
	assert.Equal(t, "pattern", engine.strategies[2].name())
	assert.Zero(t, engine.strategies[0].gate)
	assert.Equal(t, 5*time.Second, engine.strategies[1].gate)
	assert.Equal(t, time.Second, engine.strategies[2].gate)
}

func TestExtractOutline_EmbeddedMetadataWins(t *testing.T) {
	doc := &fakeDocument{
		pages: 4,
		toc: []TOCEntry{
			{Level: 1, Title: "Introduction", Page: 1},
			{Level: 2, Title: "Prior Work", Page: 2},
			{Level: 3, Title: "Benchmarks", Page: 3},
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("report.pdf")

	assert.Equal(t, "Introduction", result.Title)
	require.Len(t, result.Headings, 3)
	assert.Equal(t, LevelH1, result.Headings[0].Level)
	assert.Equal(t, LevelH2, result.Headings[1].Level)
	assert.Equal(t, LevelH3, result.Headings[2].Level)
	assert.Zero(t, doc.spanCalls, "metadata extraction should not touch page spans")
	assert.Equal(t, 1, doc.closed)
}

func TestExtractOutline_FallsThroughToLayout(t *testing.T) {
	doc := &fakeDocument{
		pages:      2,
		pageHeight: 1000,
		spans: map[int][]Span{
			1: {
				{Text: "Annual Performance Review", FontSize: 24, Bold: true, Y0: 200, Y1: 224},
				{Text: "1. Introduction", FontSize: 16, Bold: true, Y0: 300, Y1: 316},
				{Text: "This year the team delivered the migration on schedule.", FontSize: 11, Y0: 340, Y1: 351},
			},
			2: {
				{Text: "2. Results", FontSize: 16, Bold: true, Y0: 150, Y1: 166},
			},
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("review.pdf")

	assert.Equal(t, "Annual Performance Review", result.Title)
	require.Len(t, result.Headings, 3)
	assert.Equal(t, "Annual Performance Review", result.Headings[0].Text)
	assert.Equal(t, "1. Introduction", result.Headings[1].Text)
	assert.Equal(t, 2, result.Headings[2].Page)
}

func TestExtractOutline_PatternFallback(t *testing.T) {
	doc := &fakeDocument{
		pages: 2,
		plainText: map[int]string{
			1: "Some Technical Manual Title\nbody text without layout info",
			2: "Section 4 Installation Procedure\nmore body text",
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("scan.pdf")

	require.Len(t, result.Headings, 1)
	assert.Equal(t, LevelH1, result.Headings[0].Level)
	assert.Equal(t, 2, result.Headings[0].Page)
	assert.Contains(t, result.Headings[0].Text, "Section 4")
}

func TestExtractOutline_TotalFailureYieldsPlaceholder(t *testing.T) {
	doc := &fakeDocument{pages: 1, plainText: map[int]string{1: "nothing here"}}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("blank.pdf")

	assert.Equal(t, PlaceholderTitle, result.Title)
	require.NotNil(t, result.Headings)
	assert.Empty(t, result.Headings)
}

func TestExtractOutline_OpenErrorYieldsErrorOutline(t *testing.T) {
	engine := NewEngine(&fakeProvider{openErr: errors.New("file is not a PDF")})

	result := engine.ExtractOutline("broken.pdf")

	assert.Equal(t, ErrorTitle, result.Title)
	require.NotNil(t, result.Headings)
	assert.Empty(t, result.Headings)
}

func TestExtractOutline_StageErrorAbortsCascade(t *testing.T) {
	doc := &fakeDocument{
		pages:    3,
		spansErr: errors.New("damaged content stream"),
		plainText: map[int]string{
			1: "Section 1 Would Have Matched The Fallback",
		},
	}
	provider := &fakeProvider{doc: doc}
	engine := NewEngine(provider)

	result := engine.ExtractOutline("damaged.pdf")

	assert.Equal(t, ErrorTitle, result.Title)
	assert.Empty(t, result.Headings)
	// toc opened once, heuristic opened once and failed; the fallback
	// must not have been consulted after the hard error
	assert.Equal(t, 2, provider.opens)
}

func TestExtractOutline_PanicRecovered(t *testing.T) {
	doc := &fakeDocument{pages: 1, panicOnTOC: true}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("hostile.pdf")

	assert.Equal(t, ErrorTitle, result.Title)
	require.NotNil(t, result.Headings)
	assert.Empty(t, result.Headings)
}

func TestExtractOutline_OversizedCandidateFallsThrough(t *testing.T) {
	doc := &fakeDocument{
		pages:      2,
		pageHeight: 1000,
		toc:        manyTOCEntries(101),
		spans: map[int][]Span{
			1: {
				{Text: "Fallback Layout Title", FontSize: 22, Bold: true, Y0: 200, Y1: 222},
				{Text: "Ordinary paragraph text keeps the body font grounded.", FontSize: 11, Y0: 400, Y1: 411},
			},
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	result := engine.ExtractOutline("listing.pdf")

	assert.Equal(t, "Fallback Layout Title", result.Title)
	require.Len(t, result.Headings, 1)
}

func TestExtract_GateSkipsExpensiveStages(t *testing.T) {
	doc := &fakeDocument{
		pages: 1,
		spans: map[int][]Span{
			1: {{Text: "Layout Heading That Must Not Be Seen", FontSize: 24, Bold: true, Y0: 200, Y1: 224}},
		},
		plainText: map[int]string{
			1: "Chapter 9 Recovery From Low Budget",
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	cur := time.Now()
	b := startBudgetAt(10*time.Second, func() time.Time { return cur })
	// 6s consumed: 4s remain, under the 5s layout gate but over the 1s
	// fallback gate
	cur = cur.Add(6 * time.Second)

	result := engine.extract("slow.pdf", b)

	assert.Zero(t, doc.spanCalls, "layout stage should be skipped when under its gate")
	require.Len(t, result.Headings, 1)
	assert.Equal(t, LevelH1, result.Headings[0].Level)
	assert.Contains(t, result.Headings[0].Text, "Chapter 9")
}

func TestExtract_ExhaustedBudgetYieldsPlaceholder(t *testing.T) {
	doc := &fakeDocument{
		pages:     1,
		spans:     map[int][]Span{1: {{Text: "Never Reached", FontSize: 24, Y0: 100, Y1: 124}}},
		plainText: map[int]string{1: "Chapter 1 Never Reached Either"},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	cur := time.Now()
	b := startBudgetAt(10*time.Second, func() time.Time { return cur })
	cur = cur.Add(11 * time.Second)

	result := engine.extract("exhausted.pdf", b)

	assert.Equal(t, PlaceholderTitle, result.Title)
	assert.Empty(t, result.Headings)
}

func TestExtractOutline_Deterministic(t *testing.T) {
	doc := &fakeDocument{
		pages:      2,
		pageHeight: 1000,
		spans: map[int][]Span{
			1: {
				{Text: "Grid Stability Assessment", FontSize: 22, Bold: true, Y0: 180, Y1: 202},
				{Text: "1. Scope", FontSize: 15, Bold: true, Y0: 260, Y1: 275},
				{Text: "The assessment covers the western interconnect only.", FontSize: 11, Y0: 300, Y1: 311},
			},
			2: {
				{Text: "2. Findings", FontSize: 15, Bold: true, Y0: 120, Y1: 135},
			},
		},
	}
	engine := NewEngine(&fakeProvider{doc: doc})

	first := engine.ExtractOutline("grid.pdf")
	second := engine.ExtractOutline("grid.pdf")

	assert.Equal(t, first, second)
}
