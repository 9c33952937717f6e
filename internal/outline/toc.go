package outline

import (
	"fmt"
	"unicode/utf8"
)

// tocExtractor reads the document's embedded outline metadata. It is the
// cheapest strategy and the most reliable one whenever a document actually
// carries bookmarks.
type tocExtractor struct {
	provider ContentProvider
	cfg      TOCConfig
}

func newTOCExtractor(provider ContentProvider, cfg TOCConfig) *tocExtractor {
	return &tocExtractor{provider: provider, cfg: cfg}
}

func (e *tocExtractor) name() string { return "toc" }

// attempt maps the embedded outline entries onto headings. Entries whose
// cleaned title falls outside the configured length bounds are dropped.
// Returns nil when nothing survives, which sends the cascade on to the
// next strategy.
func (e *tocExtractor) attempt(path string, _ *Budget) (*Outline, error) {
	doc, err := e.provider.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toc extraction: %w", err)
	}
	defer doc.Close()

	var headings []Heading
	for _, entry := range doc.TableOfContents() {
		title := cleanTitleText(entry.Title)
		n := utf8.RuneCountInString(title)
		if n < e.cfg.MinTitleLen || n > e.cfg.MaxTitleLen {
			continue
		}
		headings = append(headings, Heading{
			Level: mapTOCLevel(entry.Level),
			Text:  title,
			Page:  entry.Page,
		})
	}

	if len(headings) == 0 {
		return nil, nil
	}

	title := headings[0].Text
	if utf8.RuneCountInString(title) > e.cfg.MaxDocumentTitle {
		title = PlaceholderTitle
	}
	return &Outline{Title: title, Headings: headings}, nil
}

// mapTOCLevel flattens arbitrary bookmark depth onto the three modeled
// tiers: depth 1 and 2 map directly, everything deeper is H3.
func mapTOCLevel(level int) HeadingLevel {
	switch level {
	case 1:
		return LevelH1
	case 2:
		return LevelH2
	default:
		return LevelH3
	}
}
