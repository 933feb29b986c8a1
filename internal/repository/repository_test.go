package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"Backpack", "%backpack%"},
		{"  blue bag ", "%blue bag%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SearchPattern(tt.term), "term %q", tt.term)
	}
}

func TestNormalizePage(t *testing.T) {
	limit, offset := NormalizePage(0, -5)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = NormalizePage(500, 40)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 40, offset)
}
