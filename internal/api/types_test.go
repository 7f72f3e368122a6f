package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseServerTimeLayouts(t *testing.T) {
	cases := map[string]string{
		"rfc3339 nano": "2024-03-05T12:30:45.123456Z",
		"rfc3339":      "2024-03-05T12:30:45Z",
		"naive iso":    "2024-03-05T12:30:45",
		"bare date":    "2024-03-05",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			item := KnowledgeItem{UpdatedAt: value}
			parsed := item.UpdatedTime()
			assert.False(t, parsed.IsZero())
			assert.Equal(t, 2024, parsed.Year())
			assert.Equal(t, time.March, parsed.Month())
		})
	}
}

func TestParseServerTimeGarbage(t *testing.T) {
	item := KnowledgeItem{UpdatedAt: "not a date"}
	assert.True(t, item.UpdatedTime().IsZero())
}

func TestIsPDF(t *testing.T) {
	assert.False(t, KnowledgeItem{}.IsPDF())
	assert.True(t, KnowledgeItem{OriginalFilename: "doc.pdf"}.IsPDF())
}
