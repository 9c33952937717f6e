package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docstructx/docstructx/internal/outline"
)

const (
	// rowTolerance is the baseline Y tolerance for grouping runs into one line
	rowTolerance = 2.0

	// wordGapFactor of the font size is the horizontal gap treated as a word break
	wordGapFactor = 0.3
)

// assembleSpans merges raw positioned text runs into line-level spans.
// Runs sharing a baseline and font size form one span; a font change
// within a line starts a new span, so a bold lead-in keeps its own
// attributes. Coordinates are converted from the PDF bottom-left origin
// to top-origin edges, which is what the zone classification works with.
func assembleSpans(texts []pdf.Text, pageHeight float64) []outline.Span {
	runs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" || t.S == " " {
			runs = append(runs, t)
		}
	}
	if len(runs) == 0 {
		return nil
	}

	// Reading order: top to bottom, then left to right. PDF Y grows upward.
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) > rowTolerance {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var spans []outline.Span
	var sb strings.Builder
	var cur pdf.Text
	var curEndX float64
	open := false

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimSpace(sb.String())
		if text != "" {
			spans = append(spans, outline.Span{
				Text:     text,
				FontSize: cur.FontSize,
				Bold:     isBoldFont(cur.Font),
				Y0:       pageHeight - (cur.Y + spanHeight(cur)),
				Y1:       pageHeight - cur.Y,
			})
		}
		sb.Reset()
		open = false
	}

	for _, run := range runs {
		sameLine := open && math.Abs(run.Y-cur.Y) <= rowTolerance
		sameFont := open && run.Font == cur.Font && run.FontSize == cur.FontSize
		if !sameLine || !sameFont {
			flush()
			cur = run
			curEndX = run.X
			open = true
		}
		if gap := run.X - curEndX; gap > wordGapFactor*spanHeight(run) && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.S)
		curEndX = run.X + run.W
	}
	flush()

	return spans
}

// spanHeight approximates the vertical extent of a run. The library does
// not report glyph heights, so the font size stands in, with a floor for
// runs that carry no size at all.
func spanHeight(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return 12.0
}

// isBoldFont infers boldness from the font name
func isBoldFont(name string) bool {
	return strings.Contains(strings.ToLower(name), "bold")
}
