package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// pageMarkedNumberedRe finds "3.1 Some heading" style lines, keyed to
	// the inline page marker preceding them
	pageMarkedNumberedRe = regexp.MustCompile(`\[PAGE_(\d+)\].*?(\d+\.\d*\s+[^\n]{5,80})`)

	// pageMarkedKeywordRe finds "Section 3 ...", "Chapter 12 ..." style lines
	pageMarkedKeywordRe = regexp.MustCompile(`(?i)\[PAGE_(\d+)\].*?((Section|Chapter|Part)\s+\d+[^\n]{0,50})`)

	// firstPageTitleRe grabs a capitalized fragment from the first page
	firstPageTitleRe = regexp.MustCompile(`\[PAGE_1\].*?([A-Z][^\n]{10,100})`)
)

// patternExtractor is the last-resort strategy: when neither metadata nor
// layout can be trusted it scans the raw page text for numbered-section
// and chapter/section keyword patterns.
type patternExtractor struct {
	provider ContentProvider
	cfg      FallbackConfig
}

func newPatternExtractor(provider ContentProvider, cfg FallbackConfig) *patternExtractor {
	return &patternExtractor{provider: provider, cfg: cfg}
}

func (e *patternExtractor) name() string { return "pattern" }

func (e *patternExtractor) attempt(path string, _ *Budget) (*Outline, error) {
	doc, err := e.provider.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pattern extraction: %w", err)
	}
	defer doc.Close()

	pages := doc.PageCount()
	if pages > e.cfg.MaxScanPages {
		pages = e.cfg.MaxScanPages
	}

	var sb strings.Builder
	for page := 1; page <= pages; page++ {
		text, err := doc.PlainText(page)
		if err != nil {
			return nil, fmt.Errorf("pattern extraction: page %d: %w", page, err)
		}
		fmt.Fprintf(&sb, "[PAGE_%d]%s", page, text)
	}
	allText := sb.String()

	var headings []Heading
	for _, m := range pageMarkedNumberedRe.FindAllStringSubmatch(allText, -1) {
		page, _ := strconv.Atoi(m[1])
		text := strings.TrimSpace(m[2])
		level := LevelH2
		if strings.Count(text, ".") > 1 {
			level = LevelH3
		}
		headings = append(headings, Heading{Level: level, Text: text, Page: page})
	}
	for _, m := range pageMarkedKeywordRe.FindAllStringSubmatch(allText, -1) {
		page, _ := strconv.Atoi(m[1])
		headings = append(headings, Heading{Level: LevelH1, Text: strings.TrimSpace(m[2]), Page: page})
	}
	if len(headings) > e.cfg.MaxHeadings {
		headings = headings[:e.cfg.MaxHeadings]
	}

	title := PlaceholderTitle
	if m := firstPageTitleRe.FindStringSubmatch(allText); m != nil {
		title = strings.TrimSpace(m[1])
	}
	return &Outline{Title: title, Headings: headings}, nil
}
