package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "  # T\nbody  ", "# T\nbody"},
		{"markdown fence", "```markdown\n# T\n### A\n```", "# T\n### A"},
		{"generic fence", "```\n# T\n```", "# T"},
		{"unterminated fence", "```markdown\n# T", "```markdown\n# T"},
		{"fence only", "```", "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMarkdown(tt.input))
		})
	}
}

func TestHeadingOutline(t *testing.T) {
	outline := HeadingOutline("# T\n## S\n### A\ntext\n### B\n#### D\n")
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 2, 4: 1}, outline)
	assert.Equal(t, 0, HeadingOutline("#no space is not a heading")[1])
}
