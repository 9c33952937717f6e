package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Valid(t *testing.T) {
	v := NewValidator(1, 100)

	tests := []struct {
		name     string
		headings int
		want     bool
	}{
		{"empty outline", 0, false},
		{"single heading", 1, true},
		{"typical outline", 25, true},
		{"at the upper bound", 100, true},
		{"just past the upper bound", 101, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Title: "Doc", Headings: make([]Heading, tt.headings)}
			assert.Equal(t, tt.want, v.Valid(o))
		})
	}
}

func TestValidator_NilCandidate(t *testing.T) {
	v := NewValidator(1, 100)
	assert.False(t, v.Valid(nil))
}

func TestValidator_IgnoresTitle(t *testing.T) {
	v := NewValidator(1, 100)
	o := &Outline{Title: "", Headings: []Heading{{Level: LevelH1, Text: "Intro", Page: 1}}}
	assert.True(t, v.Valid(o), "validation bounds the heading count only")
}
