package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "Go", []string{"Go"}},
		{"comma separated", "HTML,CSS,JavaScript", []string{"HTML", "CSS", "JavaScript"}},
		{"trims whitespace", " HTML , CSS ,  JavaScript", []string{"HTML", "CSS", "JavaScript"}},
		{"drops empty entries", "Go,,Rust,", []string{"Go", "Rust"}},
		{"all empty", " , ,", []string{}},
		{"empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSkills(tt.input))
		})
	}
}
