package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		info string
		want Kind
	}{
		{"mermaid", KindDiagram},
		{"  mermaid  ", KindDiagram},
		{"mermaid {theme: dark}", KindDiagram},
		{"warning", KindWarning},
		{"warning extra", KindDefault},
		{"note", KindNote},
		{"regexp", KindRegexp},
		{"jison", KindJison},
		{"Jison", KindDefault},
		{"go", KindDefault},
		{"", KindDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.info, "mermaid"), "info %q", tt.info)
	}
	assert.Equal(t, KindDefault, Classify("mermaid", ""))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "diagram", KindDiagram.String())
	assert.Equal(t, "jison", KindJison.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"abcXYZ019":     "abcXYZ019",
		"-_.!~*'()":     "-_.!~*'()",
		"a b":           "a%20b",
		"A-->B;\n":      "A--%3EB%3B%0A",
		"é":             "%C3%A9",
		"a&b=c/d?e#f%g": "a%26b%3Dc%2Fd%3Fe%23f%25g",
		`"quoted"`:      "%22quoted%22",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}
