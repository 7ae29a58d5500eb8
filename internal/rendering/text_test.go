package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeLabelParts(t *testing.T) {
	tests := []struct {
		label                  string
		prefix, number, suffix string
	}{
		{"5A", "", "5", "A"},
		{"Grade 10State", "Grade ", "10", "State"},
		{"Grade 6", "Grade ", "6", ""},
		{"Kindergarten", "Kindergarten", "", ""},
		{"", "", "", ""},
		{"Year 7 Set 2", "Year ", "7", " Set 2"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			prefix, number, suffix := gradeLabelParts(tt.label)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.suffix, suffix)
			assert.Equal(t, tt.label, prefix+number+suffix, "label must survive verbatim")
		})
	}
}

func TestFormatMarks(t *testing.T) {
	assert.Equal(t, "45", formatMarks(45))
	assert.Equal(t, "12.5", formatMarks(12.5))
	assert.Equal(t, "0", formatMarks(0))
	assert.Equal(t, "0.3", formatMarks(0.1+0.2))
	assert.Equal(t, "33.33", formatMarks(33.3333))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "65.0%", formatPercent(65))
	assert.Equal(t, "66.7%", formatPercent(66.6666))
	assert.Equal(t, "0.0%", formatPercent(0))
}

func splitWords(limit int) func(string) []string {
	return func(s string) []string {
		words := strings.Fields(s)
		lines := []string{}
		for len(words) > limit {
			lines = append(lines, strings.Join(words[:limit], " "))
			words = words[limit:]
		}
		return append(lines, strings.Join(words, " "))
	}
}

func TestCommentLines(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, commentLines("   ", 4, splitWords(3)))
	})

	t.Run("caps explicit lines", func(t *testing.T) {
		lines := commentLines("1\n2\n3\n4\n5", 4, splitWords(3))
		assert.Equal(t, []string{"1", "2", "3", "4"}, lines)
	})

	t.Run("wrapped lines count towards the cap", func(t *testing.T) {
		lines := commentLines("a b c d e f g h\nlast", 2, splitWords(3))
		assert.Equal(t, []string{"a b c", "d e f"}, lines)
	})

	t.Run("keeps blank paragraph separators", func(t *testing.T) {
		lines := commentLines("first\r\n\r\nsecond", 4, splitWords(3))
		assert.Equal(t, []string{"first", "", "second"}, lines)
	})
}
