package visuals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        domain.VisualType
	}{
		{"કોષ્ટક 3.1 માં કિંમતો", domain.VisualTable},
		{"A Table with a graph", domain.VisualTable},
		{"આલેખ પર બે રેખાઓ", domain.VisualFigureOrGraph},
		{"Graph of x + y = 5", domain.VisualFigureOrGraph},
		{"ચિત્ર જેમાં ત્રિકોણ છે", domain.VisualDiagram},
		{"tree diagram", domain.VisualDiagram},
		{"સંખ્યા રેખા", domain.VisualLineDiagram},
		{"a straight LINE", domain.VisualLineDiagram},
		{"વર્તુળ", domain.VisualGenericFigure},
		{"", domain.VisualGenericFigure},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.description))
		})
	}
}
