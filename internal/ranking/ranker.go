package ranking

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docstructx/docstructx/internal/outline"
)

// Section is a document slice between two consecutive heading boundaries
type Section struct {
	Document string
	Title    string
	Page     int
	Text     string
}

// RankedSection is one row of the extracted-sections report
type RankedSection struct {
	Document       string  `json:"document"`
	PageNumber     int     `json:"page_number"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SubSection is one row of the sub-section analysis report
type SubSection struct {
	Document      string `json:"document"`
	RefinedText   string `json:"refined_text"`
	PageNumber    int    `json:"page_number"`
	ParentSection string `json:"parent_section"`
	Rank          int    `json:"rank"`
}

// RunMetadata describes one ranking run
type RunMetadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// Report is the full ranking output
type Report struct {
	Metadata           RunMetadata     `json:"metadata"`
	ExtractedSections  []RankedSection `json:"extracted_sections"`
	SubSectionAnalysis []SubSection    `json:"sub_section_analysis"`
}

// Config bounds the ranking pass. Like the extraction cascade, the
// checkpoints are cooperative: slow steps are not interrupted, the next
// step simply does not start.
type Config struct {
	MaxRuntime            time.Duration
	DocumentBudgetFloor   time.Duration // stop taking on new documents below this
	SectionBudgetFloor    time.Duration // stop deriving further sections below this
	SubSectionBudgetFloor time.Duration // stop sub-section analysis below this

	MaxSectionChars int // cap on one section's accumulated text
	TopSections     int // sections that get sub-section analysis
	MaxReported     int // rows reported per result list
	MaxParagraphs   int // paragraphs considered per section
	TopParagraphs   int // paragraphs reported per section
	MinParagraphLen int // shorter lines are not paragraphs
	MaxFeatures     int // TF-IDF vocabulary cap
}

// DefaultConfig returns the tuned default ranking configuration
func DefaultConfig() Config {
	return Config{
		MaxRuntime:            55 * time.Second,
		DocumentBudgetFloor:   10 * time.Second,
		SectionBudgetFloor:    15 * time.Second,
		SubSectionBudgetFloor: 3 * time.Second,
		MaxSectionChars:       500_000,
		TopSections:           15,
		MaxReported:           30,
		MaxParagraphs:         10,
		TopParagraphs:         3,
		MinParagraphLen:       40,
		MaxFeatures:           12_000,
	}
}

// Ranker scores document sections against a persona + job query using
// TF-IDF cosine similarity. It sits downstream of the outline engine:
// headings define the section boundaries, the content provider supplies
// the section text.
type Ranker struct {
	query    string
	engine   *outline.Engine
	provider outline.ContentProvider
	cfg      Config
}

// NewRanker creates a ranker for one persona + job query
func NewRanker(persona, job string, engine *outline.Engine, provider outline.ContentProvider) *Ranker {
	return NewRankerWithConfig(persona, job, engine, provider, DefaultConfig())
}

// NewRankerWithConfig creates a ranker with a custom configuration
func NewRankerWithConfig(persona, job string, engine *outline.Engine, provider outline.ContentProvider, cfg Config) *Ranker {
	return &Ranker{
		query:    strings.TrimSpace(persona + " " + job),
		engine:   engine,
		provider: provider,
		cfg:      cfg,
	}
}

// RankCollection extracts outlines for every document, derives sections,
// and returns them ranked by relevance to the query, together with the
// per-paragraph sub-section analysis of the top sections.
func (r *Ranker) RankCollection(paths []string) ([]RankedSection, []SubSection) {
	budget := outline.StartBudget(r.cfg.MaxRuntime)

	var sections []Section
	for _, path := range paths {
		o := r.engine.ExtractOutline(path)
		derived, err := r.deriveSections(path, o, budget)
		if err != nil {
			log.Printf("[warn] skipping %s: %v", path, err)
		} else {
			sections = append(sections, derived...)
		}
		if budget.Remaining() < r.cfg.DocumentBudgetFloor {
			break
		}
	}
	if len(sections) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(sections)+1)
	texts = append(texts, r.query)
	for _, sec := range sections {
		texts = append(texts, sec.Text)
	}
	vectors := newVectorizer(r.cfg.MaxFeatures).fitTransform(texts)

	ranked := make([]RankedSection, len(sections))
	for i, sec := range sections {
		ranked[i] = RankedSection{
			Document:       sec.Document,
			PageNumber:     sec.Page,
			SectionTitle:   sec.Title,
			ImportanceRank: -1,
			RelevanceScore: cosine(vectors[0], vectors[i+1]),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	for i := range ranked {
		ranked[i].ImportanceRank = i + 1
	}

	subSections := r.analyzeSubSections(sections, ranked, budget)

	return capSections(ranked, r.cfg.MaxReported), subSections
}

// BuildReport wraps ranking results with run metadata
func (r *Ranker) BuildReport(paths []string, persona, job string, sections []RankedSection, subSections []SubSection) Report {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return Report{
		Metadata: RunMetadata{
			InputDocuments:      names,
			Persona:             persona,
			JobToBeDone:         job,
			ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
		ExtractedSections:  sections,
		SubSectionAnalysis: subSections,
	}
}

// deriveSections slices a document into sections: each heading claims the
// pages from its own up to (exclusive) the next heading's page.
func (r *Ranker) deriveSections(path string, o outline.Outline, budget *outline.Budget) ([]Section, error) {
	if len(o.Headings) == 0 {
		return nil, nil
	}
	doc, err := r.provider.Open(path)
	if err != nil {
		return nil, fmt.Errorf("derive sections: %w", err)
	}
	defer doc.Close()

	headings := make([]outline.Heading, len(o.Headings))
	copy(headings, o.Headings)
	sort.SliceStable(headings, func(i, j int) bool {
		if headings[i].Page != headings[j].Page {
			return headings[i].Page < headings[j].Page
		}
		if headings[i].Level != headings[j].Level {
			return headings[i].Level < headings[j].Level
		}
		return headings[i].Text < headings[j].Text
	})

	document := docStem(path)
	pageCount := doc.PageCount()
	var sections []Section
	for i, h := range headings {
		endPage := pageCount + 1
		if i+1 < len(headings) {
			endPage = headings[i+1].Page
		}
		var sb strings.Builder
		for page := h.Page; page < endPage && page <= pageCount; page++ {
			text, err := doc.PlainText(page)
			if err != nil {
				return nil, fmt.Errorf("derive sections: page %d: %w", page, err)
			}
			sb.WriteString(text)
			if sb.Len() > r.cfg.MaxSectionChars {
				break
			}
		}
		sections = append(sections, Section{
			Document: document,
			Title:    h.Text,
			Page:     h.Page,
			Text:     strings.TrimSpace(sb.String()),
		})
		if budget.Remaining() < r.cfg.SectionBudgetFloor {
			break
		}
	}
	return sections, nil
}

// analyzeSubSections re-scores the paragraphs of the top-ranked sections
// against the query and keeps the best few per section
func (r *Ranker) analyzeSubSections(sections []Section, ranked []RankedSection, budget *outline.Budget) []SubSection {
	top := capSections(ranked, r.cfg.TopSections)

	var results []SubSection
	for _, sec := range top {
		paragraphs := r.extractParagraphs(sections, sec)
		if len(paragraphs) == 0 {
			continue
		}
		texts := make([]string, 0, len(paragraphs)+1)
		texts = append(texts, r.query)
		texts = append(texts, paragraphs...)
		vectors := newVectorizer(r.cfg.MaxFeatures).fitTransform(texts)

		type scored struct {
			text  string
			score float64
		}
		scoredParas := make([]scored, len(paragraphs))
		for i, p := range paragraphs {
			scoredParas[i] = scored{text: p, score: cosine(vectors[0], vectors[i+1])}
		}
		sort.SliceStable(scoredParas, func(i, j int) bool {
			return scoredParas[i].score > scoredParas[j].score
		})
		if len(scoredParas) > r.cfg.TopParagraphs {
			scoredParas = scoredParas[:r.cfg.TopParagraphs]
		}
		for rank, p := range scoredParas {
			results = append(results, SubSection{
				Document:      sec.Document,
				RefinedText:   p.text,
				PageNumber:    sec.PageNumber,
				ParentSection: sec.SectionTitle,
				Rank:          rank + 1,
			})
		}
		if budget.Remaining() < r.cfg.SubSectionBudgetFloor {
			break
		}
	}
	if len(results) > r.cfg.MaxReported {
		results = results[:r.cfg.MaxReported]
	}
	return results
}

// extractParagraphs returns the paragraph candidates of the section a
// ranked row refers to: its non-trivial lines, up to the configured cap
func (r *Ranker) extractParagraphs(sections []Section, ranked RankedSection) []string {
	var match *Section
	for i := range sections {
		if sections[i].Document == ranked.Document && sections[i].Title == ranked.SectionTitle {
			match = &sections[i]
			break
		}
	}
	if match == nil {
		return nil
	}
	var paragraphs []string
	for _, line := range strings.Split(match.Text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > r.cfg.MinParagraphLen {
			paragraphs = append(paragraphs, line)
		}
		if len(paragraphs) == r.cfg.MaxParagraphs {
			break
		}
	}
	return paragraphs
}

func capSections(sections []RankedSection, limit int) []RankedSection {
	if len(sections) > limit {
		return sections[:limit]
	}
	return sections
}

func docStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
