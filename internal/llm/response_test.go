package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func TestCleanFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[1]`, `[1]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n[]\n```", `[]`},
		{"padding", "  \n[]\n ", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFences(tt.in))
		})
	}
}

func TestDecodeArray(t *testing.T) {
	items, err := DecodeArray("```json\n[{\"description\":\"ગ્રાફ\"},{\"description\":\"કોષ્ટક\"}]\n```")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.JSONEq(t, `{"description":"ગ્રાફ"}`, string(items[0]))

	items, err = DecodeArray("[]")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeArrayNoData(t *testing.T) {
	for _, in := range []string{"", "આ પાનામાં કોઈ ઉદાહરણ નથી", `{"a":1}`, `[{"a":1}`} {
		_, err := DecodeArray(in)
		assert.ErrorIs(t, err, domain.ErrNoData, in)
	}
}
