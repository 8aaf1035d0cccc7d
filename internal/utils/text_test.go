package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"plain title", "Fire Safety Inspection", 0, "fire-safety-inspection"},
		{"diacritics stripped", "Équipement Pré-Utilisation", 0, "equipement-pre-utilisation"},
		{"symbols collapse", "  PPE // Compliance -- Q1!! ", 0, "ppe-compliance-q1"},
		{"length capped", "Warehouse Loading Dock", 12, "warehouse-lo"},
		{"no trailing hyphen after cut", "abc def", 4, "abc"},
		{"fallback when empty", "!!!", 0, "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input, tt.maxLen, "report"))
		})
	}
}

func TestCleanUTF8(t *testing.T) {
	cleaned, changed := CleanUTF8("ok")
	assert.Equal(t, "ok", cleaned)
	assert.False(t, changed)

	cleaned, changed = CleanUTF8("bad\x00\xffvalue")
	assert.Equal(t, "badvalue", cleaned)
	assert.True(t, changed)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exting...", Truncate("extinguisher", 9))
	assert.Equal(t, "ex", Truncate("extinguisher", 2))
}
