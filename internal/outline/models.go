package outline

import (
	"time"
)

// HeadingLevel represents the coarse nesting tier of a heading
type HeadingLevel string

const (
	LevelH1 HeadingLevel = "H1"
	LevelH2 HeadingLevel = "H2"
	LevelH3 HeadingLevel = "H3"
)

// IsValid checks if the heading level is one of the modeled tiers
func (l HeadingLevel) IsValid() bool {
	switch l {
	case LevelH1, LevelH2, LevelH3:
		return true
	default:
		return false
	}
}

// Heading is a single entry of a document outline
type Heading struct {
	Level HeadingLevel `json:"level"`
	Text  string       `json:"text"`
	Page  int          `json:"page"`
}

// Outline is the extracted document structure: a title plus the ordered
// heading list. The JSON shape matches the downstream consumer contract.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}

// Zone represents the vertical region of a page a span falls into
type Zone string

const (
	ZoneHeader Zone = "header"
	ZoneBody   Zone = "body"
	ZoneFooter Zone = "footer"
)

// Span is a contiguous run of page text sharing font and position
// attributes, as reported by the content provider. Y0 and Y1 are the top
// and bottom edges of the span measured from the top of the page.
type Span struct {
	Text     string
	FontSize float64
	Bold     bool
	Y0       float64
	Y1       float64
}

// TOCEntry is one entry of a document's embedded outline metadata.
// Level is the nesting depth starting at 1.
type TOCEntry struct {
	Level int
	Title string
	Page  int
}

// ContentProvider supplies document handles to the extraction engine
type ContentProvider interface {
	Open(path string) (Document, error)
}

// Document is a scoped handle on an open document. Each extraction stage
// opens its own handle and must close it on every exit path.
type Document interface {
	Close() error

	// TableOfContents returns the embedded outline metadata in document
	// order, or an empty slice when the document carries none.
	TableOfContents() []TOCEntry

	PageCount() int

	// PageHeight returns the height of the first page in points, or a
	// default when it cannot be determined.
	PageHeight() float64

	// PlainText returns the raw text of a page (1-based).
	PlainText(page int) (string, error)

	// Spans returns the structured text spans of a page (1-based) in
	// top-to-bottom order.
	Spans(page int) ([]Span, error)
}

const (
	// PlaceholderTitle is used when no usable document title was found
	PlaceholderTitle = "Untitled Document"

	// ErrorTitle marks outlines produced on the unrecoverable-fault path
	ErrorTitle = "Error in Processing"
)

// Config controls the cascade: the overall wall-clock allowance, the
// per-stage entry gates and the structural bounds a candidate outline must
// satisfy. The gate values are tuned defaults, not derived quantities.
type Config struct {
	// MaxRuntime is the wall-clock allowance for one extraction call
	MaxRuntime time.Duration

	// HeuristicGate is the minimum remaining budget required to start
	// the layout-heuristic stage
	HeuristicGate time.Duration

	// FallbackGate is the minimum remaining budget required to start
	// the pattern-fallback stage
	FallbackGate time.Duration

	// MinHeadings and MaxHeadings bound a structurally valid candidate
	MinHeadings int
	MaxHeadings int

	Heuristic HeuristicConfig
	Fallback  FallbackConfig
	TOC       TOCConfig
}

// TOCConfig controls the structural (metadata) extractor
type TOCConfig struct {
	MinTitleLen      int // shortest surviving entry title, in runes
	MaxTitleLen      int // longest surviving entry title, in runes
	MaxDocumentTitle int // beyond this the document title degrades to the placeholder
}

// HeuristicConfig holds the layout-heuristic weights and thresholds.
// All confidence contributions are additive; see headingConfidence.
type HeuristicConfig struct {
	MaxScanPages int

	MinSpanLen int // exclusive lower bound on span text length, in runes
	MaxSpanLen int // exclusive upper bound on span text length, in runes

	// Zone boundaries as fractions of the page height. Both are strict
	// inequalities: a span exactly on the boundary is body text.
	HeaderZoneRatio float64
	FooterZoneRatio float64

	// Confidence weights
	LargeFontSize    float64 // font size above which LargeFontWeight applies
	MediumFontSize   float64 // font size above which MediumFontWeight applies
	LargeFontWeight  float64
	MediumFontWeight float64
	BoldWeight       float64
	HeaderPenalty    float64
	FooterPenalty    float64
	NumberedWeight   float64
	UppercaseWeight  float64
	KeywordWeight    float64
	ShortTextWeight  float64
	MaxShortWords    int // word count at or below which ShortTextWeight applies

	// Dominant body-font selection
	MaxDominantFonts    int
	MinPlausibleFont    float64 // sizes below this are never body text
	DefaultMaxBodyFont  float64 // stand-in for max(F) when F is empty
	DefaultMinBodyFont  float64 // stand-in for min(F) when F is empty
	H1FontDelta         float64 // size above max body font for H1
	H2FontDelta         float64 // size above max body font for H2
	BoldH2FontDelta     float64 // size above min body font for bold H2
	MinHeadingLen       int     // exclusive lower bound on cleaned heading length
	MaxHeadingLen       int     // exclusive upper bound on cleaned heading length
	TitleMaxPage        int     // last page considered for title candidates
	TitleMinConfidence  float64 // candidate spans below this never become the title
	PageBudgetFloor     time.Duration // stop scanning pages below this remaining budget
	HeadingBudgetFloor  time.Duration // stop classifying spans below this remaining budget
}

// FallbackConfig controls the textual pattern extractor
type FallbackConfig struct {
	MaxScanPages int
	MaxHeadings  int
}

// DefaultConfig returns the tuned default cascade configuration
func DefaultConfig() Config {
	return Config{
		MaxRuntime:    10 * time.Second,
		HeuristicGate: 5 * time.Second,
		FallbackGate:  1 * time.Second,
		MinHeadings:   1,
		MaxHeadings:   100,
		TOC: TOCConfig{
			MinTitleLen:      3,
			MaxTitleLen:      150,
			MaxDocumentTitle: 100,
		},
		Heuristic: HeuristicConfig{
			MaxScanPages:       50,
			MinSpanLen:         2,
			MaxSpanLen:         200,
			HeaderZoneRatio:    0.13,
			FooterZoneRatio:    0.89,
			LargeFontSize:      18,
			MediumFontSize:     15,
			LargeFontWeight:    1.6,
			MediumFontWeight:   1.0,
			BoldWeight:         0.8,
			HeaderPenalty:      0.8,
			FooterPenalty:      1.1,
			NumberedWeight:     0.8,
			UppercaseWeight:    0.4,
			KeywordWeight:      0.7,
			ShortTextWeight:    0.3,
			MaxShortWords:      10,
			MaxDominantFonts:   2,
			MinPlausibleFont:   4,
			DefaultMaxBodyFont: 12,
			DefaultMinBodyFont: 10,
			H1FontDelta:        6,
			H2FontDelta:        3,
			BoldH2FontDelta:    1,
			MinHeadingLen:      2,
			MaxHeadingLen:      160,
			TitleMaxPage:       3,
			TitleMinConfidence: 2.0,
			PageBudgetFloor:    500 * time.Millisecond,
			HeadingBudgetFloor: 200 * time.Millisecond,
		},
		Fallback: FallbackConfig{
			MaxScanPages: 50,
			MaxHeadings:  20,
		},
	}
}
