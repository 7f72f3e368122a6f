package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextStripsANSI(t *testing.T) {
	got := SanitizeText("hello \x1b[31mred\x1b[0m world")
	assert.Equal(t, "hello red world", got)
}

func TestSanitizeTextStripsBidiControls(t *testing.T) {
	got := SanitizeText("user‮‭name")
	assert.Equal(t, "username", got)
}

func TestSanitizeTextKeepsNewlines(t *testing.T) {
	got := SanitizeText("line one\nline two")
	assert.Contains(t, got, "\n")
}

func TestSanitizeOneLineFlattens(t *testing.T) {
	got := SanitizeOneLine("a title\nwith\tline breaks")
	assert.Equal(t, "a title with line breaks", got)
}
