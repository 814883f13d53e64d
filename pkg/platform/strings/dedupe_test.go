package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"AM"},
			expected: []string{"AM"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  AM  ", "PM  ", "  1/2"},
			expected: []string{"AM", "PM", "1/2"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"AM", "PM", "AM", "1/2", "PM"},
			expected: []string{"AM", "PM", "1/2"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"AM", "", "  ", "PM"},
			expected: []string{"AM", "PM"},
		},
		{
			name:     "combined trim dedupe and drop empties",
			input:    []string{"  AM ", "PM", "AM", "", "  ", "PM"},
			expected: []string{"AM", "PM"},
		},
		{
			name:     "case sensitive",
			input:    []string{"am", "AM"},
			expected: []string{"am", "AM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
