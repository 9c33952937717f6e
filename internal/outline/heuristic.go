package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// numberedPrefixRe matches decimal or roman-numeral section prefixes
	numberedPrefixRe = regexp.MustCompile(`^(\d+\.|\d+\.\d+|[IVXLC]+\.)`)

	// allCapsRe matches text written entirely in capitals
	allCapsRe = regexp.MustCompile(`^[A-Z\s]{5,}$`)

	// sectionKeywordRe matches "Section 3", "Chapter IV", "Appendix B" style openers
	sectionKeywordRe = regexp.MustCompile(`(?i)^(section|chapter|appendix)\s+\w+`)

	// numberedSubsectionRe matches "2.1 Background" style sub-section headings
	numberedSubsectionRe = regexp.MustCompile(`^\d+\.\d+\s+[A-Z]`)

	// romanHeadingRe matches roman-numeral headings like "IV. Results"
	romanHeadingRe = regexp.MustCompile(`^[IVXLC]+\.?\s`)

	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
	pageLabelRe  = regexp.MustCompile(`(?i)^\s*page \d+`)
	linklikeRe   = regexp.MustCompile(`(http|www\.|@)`)
)

// artifactKeywords flag boilerplate that never belongs in an outline
var artifactKeywords = []string{
	"copyright",
	"all rights reserved",
	"page",
	"doi:",
	"table of contents",
	"abstract",
	"official use",
}

// spanRecord is a scored text span collected during the page scan
type spanRecord struct {
	text       string
	page       int
	fontSize   float64
	bold       bool
	y0         float64
	zone       Zone
	confidence float64
}

// heuristicExtractor infers the outline from visual layout: it scores
// every span by font size, weight, position and textual shape, uses the
// aggregated scores to find the document's body font sizes, and classifies
// spans that stand out from that baseline as headings.
type heuristicExtractor struct {
	provider ContentProvider
	cfg      HeuristicConfig
}

func newHeuristicExtractor(provider ContentProvider, cfg HeuristicConfig) *heuristicExtractor {
	return &heuristicExtractor{provider: provider, cfg: cfg}
}

func (e *heuristicExtractor) name() string { return "heuristic" }

func (e *heuristicExtractor) attempt(path string, b *Budget) (*Outline, error) {
	doc, err := e.provider.Open(path)
	if err != nil {
		return nil, fmt.Errorf("heuristic extraction: %w", err)
	}
	defer doc.Close()

	pageHeight := doc.PageHeight()
	pages := doc.PageCount()
	if pages > e.cfg.MaxScanPages {
		pages = e.cfg.MaxScanPages
	}

	var records []spanRecord
	fontScores := map[float64]float64{}
	for page := 1; page <= pages; page++ {
		if b.Remaining() < e.cfg.PageBudgetFloor {
			break
		}
		spans, err := doc.Spans(page)
		if err != nil {
			return nil, fmt.Errorf("heuristic extraction: page %d: %w", page, err)
		}
		for _, span := range spans {
			text := strings.TrimSpace(span.Text)
			n := utf8.RuneCountInString(text)
			if n <= e.cfg.MinSpanLen || n >= e.cfg.MaxSpanLen || e.isArtifact(text) {
				continue
			}
			zone := e.classifyZone(span.Y0, span.Y1, pageHeight)
			confidence := e.headingConfidence(text, span.FontSize, span.Bold, zone)
			records = append(records, spanRecord{
				text:       text,
				page:       page,
				fontSize:   span.FontSize,
				bold:       span.Bold,
				y0:         span.Y0,
				zone:       zone,
				confidence: confidence,
			})
			fontScores[span.FontSize] += confidence
		}
	}

	bodyFonts := e.dominantFonts(fontScores)

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].page != records[j].page {
			return records[i].page < records[j].page
		}
		return records[i].y0 < records[j].y0
	})

	var headings []Heading
	seen := map[string]bool{}
	for _, rec := range records {
		if !seen[rec.text] {
			if level, ok := e.headingLevel(rec, bodyFonts); ok {
				headings = append(headings, Heading{Level: level, Text: rec.text, Page: rec.page})
				seen[rec.text] = true
			}
		}
		if b.Remaining() < e.cfg.HeadingBudgetFloor {
			break
		}
	}
	headings = e.cleanHeadings(headings)

	return &Outline{Title: e.selectTitle(records, headings), Headings: headings}, nil
}

// classifyZone places a span into the header, footer or body band of the
// page. Both boundaries are strict: a span exactly on the threshold is
// body text.
func (e *heuristicExtractor) classifyZone(y0, y1, pageHeight float64) Zone {
	if y0 < e.cfg.HeaderZoneRatio*pageHeight {
		return ZoneHeader
	}
	if y1 > e.cfg.FooterZoneRatio*pageHeight {
		return ZoneFooter
	}
	return ZoneBody
}

// headingConfidence scores how heading-like a span is. Contributions are
// additive and uncapped; the font-size bonuses stack.
func (e *heuristicExtractor) headingConfidence(text string, fontSize float64, bold bool, zone Zone) float64 {
	var confidence float64
	if fontSize > e.cfg.LargeFontSize {
		confidence += e.cfg.LargeFontWeight
	}
	if fontSize > e.cfg.MediumFontSize {
		confidence += e.cfg.MediumFontWeight
	}
	if bold {
		confidence += e.cfg.BoldWeight
	}
	switch zone {
	case ZoneHeader:
		confidence -= e.cfg.HeaderPenalty
	case ZoneFooter:
		confidence -= e.cfg.FooterPenalty
	}
	if numberedPrefixRe.MatchString(text) {
		confidence += e.cfg.NumberedWeight
	}
	if allCapsRe.MatchString(text) {
		confidence += e.cfg.UppercaseWeight
	}
	if sectionKeywordRe.MatchString(text) {
		confidence += e.cfg.KeywordWeight
	}
	if len(strings.Fields(text)) <= e.cfg.MaxShortWords {
		confidence += e.cfg.ShortTextWeight
	}
	return confidence
}

// isArtifact flags spans that are page furniture rather than content:
// bare numbers, page labels, boilerplate keywords, links and addresses.
func (e *heuristicExtractor) isArtifact(text string) bool {
	if digitsOnlyRe.MatchString(text) || pageLabelRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range artifactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return linklikeRe.MatchString(text)
}

// dominantFonts picks the font sizes most likely to be ordinary body
// text. Selection is score-weighted, not frequency-weighted: a size that
// appears rarely but with very high per-occurrence confidence outranks a
// common low-confidence one. Implausibly small sizes are excluded.
func (e *heuristicExtractor) dominantFonts(fontScores map[float64]float64) []float64 {
	if len(fontScores) == 0 {
		return nil
	}
	type fontScore struct {
		size  float64
		score float64
	}
	ranked := make([]fontScore, 0, len(fontScores))
	for size, score := range fontScores {
		ranked = append(ranked, fontScore{size: size, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].size < ranked[j].size
	})
	if len(ranked) > e.cfg.MaxDominantFonts {
		ranked = ranked[:e.cfg.MaxDominantFonts]
	}
	var fonts []float64
	for _, fs := range ranked {
		if fs.size >= e.cfg.MinPlausibleFont {
			fonts = append(fonts, fs.size)
		}
	}
	return fonts
}

// headingLevel decides the tier of a candidate span against the dominant
// body fonts, or rejects it. The rules are evaluated in order: font-size
// jumps first, then boldness, then textual patterns.
func (e *heuristicExtractor) headingLevel(rec spanRecord, bodyFonts []float64) (HeadingLevel, bool) {
	maxBody := e.cfg.DefaultMaxBodyFont
	minBody := e.cfg.DefaultMinBodyFont
	if len(bodyFonts) > 0 {
		maxBody, minBody = bodyFonts[0], bodyFonts[0]
		for _, f := range bodyFonts[1:] {
			if f > maxBody {
				maxBody = f
			}
			if f < minBody {
				minBody = f
			}
		}
	}

	switch {
	case rec.fontSize >= maxBody+e.cfg.H1FontDelta:
		return LevelH1, true
	case rec.fontSize >= maxBody+e.cfg.H2FontDelta:
		return LevelH2, true
	case rec.bold && rec.fontSize >= minBody+e.cfg.BoldH2FontDelta:
		return LevelH2, true
	case numberedSubsectionRe.MatchString(rec.text):
		return LevelH3, true
	case rec.bold || romanHeadingRe.MatchString(rec.text):
		return LevelH3, true
	default:
		return "", false
	}
}

// cleanHeadings normalizes heading text and drops duplicates and entries
// outside the configured length bounds. First occurrence wins.
func (e *heuristicExtractor) cleanHeadings(headings []Heading) []Heading {
	var cleaned []Heading
	seen := map[string]bool{}
	for _, h := range headings {
		text := trimBoundaryPunct(collapseSpace(h.Text))
		n := utf8.RuneCountInString(text)
		if text == "" || seen[text] || n <= e.cfg.MinHeadingLen || n >= e.cfg.MaxHeadingLen {
			continue
		}
		h.Text = text
		cleaned = append(cleaned, h)
		seen[text] = true
	}
	return cleaned
}

// selectTitle picks the document title: the largest-font high-confidence
// body span on the early pages, falling back to the first heading and
// finally to the placeholder.
func (e *heuristicExtractor) selectTitle(records []spanRecord, headings []Heading) string {
	var candidates []spanRecord
	for _, rec := range records {
		if rec.page <= e.cfg.TitleMaxPage && rec.confidence >= e.cfg.TitleMinConfidence && rec.zone == ZoneBody {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].fontSize != candidates[j].fontSize {
				return candidates[i].fontSize > candidates[j].fontSize
			}
			if candidates[i].page != candidates[j].page {
				return candidates[i].page < candidates[j].page
			}
			return candidates[i].y0 < candidates[j].y0
		})
		return candidates[0].text
	}
	if len(headings) > 0 {
		return headings[0].Text
	}
	return PlaceholderTitle
}
