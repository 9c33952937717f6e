package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOCAttempt_MapsLevels(t *testing.T) {
	doc := &fakeDocument{
		toc: []TOCEntry{
			{Level: 1, Title: "Part One", Page: 1},
			{Level: 2, Title: "Getting Started", Page: 2},
			{Level: 3, Title: "Installation Notes", Page: 3},
			{Level: 5, Title: "Deeply Nested Topic", Page: 4},
		},
	}
	e := newTOCExtractor(&fakeProvider{doc: doc}, DefaultConfig().TOC)

	o, err := e.attempt("book.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.NoError(t, err)
	require.NotNil(t, o)
	require.Len(t, o.Headings, 4)
	assert.Equal(t, LevelH1, o.Headings[0].Level)
	assert.Equal(t, LevelH2, o.Headings[1].Level)
	assert.Equal(t, LevelH3, o.Headings[2].Level)
	assert.Equal(t, LevelH3, o.Headings[3].Level, "depth beyond three flattens to H3")
	assert.Equal(t, "Part One", o.Title)
	assert.Equal(t, 1, doc.closed)
}

func TestTOCAttempt_FiltersAndCleansTitles(t *testing.T) {
	doc := &fakeDocument{
		toc: []TOCEntry{
			{Level: 1, Title: "  Scope   and\nPurpose. ", Page: 1},
			{Level: 1, Title: "ab", Page: 2}, // too short after cleaning
			{Level: 1, Title: strings.Repeat("t", 151), Page: 3}, // too long
			{Level: 1, Title: " ; ", Page: 4}, // collapses to nothing
		},
	}
	e := newTOCExtractor(&fakeProvider{doc: doc}, DefaultConfig().TOC)

	o, err := e.attempt("doc.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.NoError(t, err)
	require.NotNil(t, o)
	require.Len(t, o.Headings, 1)
	assert.Equal(t, "Scope and Purpose", o.Headings[0].Text)
}

func TestTOCAttempt_NoMetadataYieldsNil(t *testing.T) {
	e := newTOCExtractor(&fakeProvider{doc: &fakeDocument{}}, DefaultConfig().TOC)

	o, err := e.attempt("plain.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.NoError(t, err)
	assert.Nil(t, o, "an empty candidate must send the cascade onward")
}

func TestTOCAttempt_NothingSurvivesFilteringYieldsNil(t *testing.T) {
	doc := &fakeDocument{
		toc: []TOCEntry{{Level: 1, Title: "a", Page: 1}},
	}
	e := newTOCExtractor(&fakeProvider{doc: doc}, DefaultConfig().TOC)

	o, err := e.attempt("doc.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestTOCAttempt_OverlongDocumentTitleDegrades(t *testing.T) {
	long := strings.Repeat("t", 101) // survives the 150-rune entry bound
	doc := &fakeDocument{
		toc: []TOCEntry{
			{Level: 1, Title: long, Page: 1},
			{Level: 2, Title: "Second Entry", Page: 2},
		},
	}
	e := newTOCExtractor(&fakeProvider{doc: doc}, DefaultConfig().TOC)

	o, err := e.attempt("doc.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, PlaceholderTitle, o.Title)
	require.Len(t, o.Headings, 2)
	assert.Equal(t, long, o.Headings[0].Text, "the heading itself keeps the full text")
}

func TestTOCAttempt_OpenError(t *testing.T) {
	e := newTOCExtractor(&fakeProvider{openErr: errors.New("no such file")}, DefaultConfig().TOC)

	o, err := e.attempt("missing.pdf", StartBudget(DefaultConfig().MaxRuntime))
	require.Error(t, err)
	assert.Nil(t, o)
	assert.Contains(t, err.Error(), "toc extraction")
}

func TestMapTOCLevel(t *testing.T) {
	assert.Equal(t, LevelH1, mapTOCLevel(1))
	assert.Equal(t, LevelH2, mapTOCLevel(2))
	assert.Equal(t, LevelH3, mapTOCLevel(3))
	assert.Equal(t, LevelH3, mapTOCLevel(7))
	assert.Equal(t, LevelH3, mapTOCLevel(0))
}
