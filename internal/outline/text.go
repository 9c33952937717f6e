package outline

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapseSpace folds every run of whitespace into a single space and
// trims the ends.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// trimBoundaryPunct strips the punctuation that typically clings to the
// edges of extracted titles and headings.
func trimBoundaryPunct(s string) string {
	return strings.Trim(s, " .,;:")
}

// cleanTitleText applies the shared whitespace/punctuation normalization
func cleanTitleText(s string) string {
	return trimBoundaryPunct(collapseSpace(s))
}
