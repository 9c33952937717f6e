package outline

// Validator checks the structural shape of candidate outlines before the
// cascade accepts them. It deliberately does not judge quality: titles are
// never inspected, only the heading count is bounded.
type Validator struct {
	minHeadings int
	maxHeadings int
}

// NewValidator creates a validator with the given heading-count bounds
func NewValidator(minHeadings, maxHeadings int) *Validator {
	return &Validator{minHeadings: minHeadings, maxHeadings: maxHeadings}
}

// Valid reports whether a candidate outline is acceptable
func (v *Validator) Valid(o *Outline) bool {
	if o == nil {
		return false
	}
	return len(o.Headings) >= v.minHeadings && len(o.Headings) <= v.maxHeadings
}
