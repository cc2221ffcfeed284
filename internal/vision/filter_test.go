package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMathematical(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Triangle outline", true},
		{"Line Chart", true},
		{"TABLE", true},
		{"ત્રિકોણ આકૃતિ", true},
		{"Person", false},
		{"Shoe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMathematical(tt.label))
		})
	}
}
