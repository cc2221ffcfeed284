package visuals

import (
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
)

var classRules = []struct {
	keywords []string
	kind     domain.VisualType
}{
	{[]string{"કોષ્ટક", "table"}, domain.VisualTable},
	{[]string{"આકૃતિ", "આલેખ", "graph"}, domain.VisualFigureOrGraph},
	{[]string{"ચિત્ર", "diagram"}, domain.VisualDiagram},
	{[]string{"રેખા", "line"}, domain.VisualLineDiagram},
}

// Classify maps a description to a visual type. Rules are tried in order;
// a description matching none is a generic figure.
func Classify(description string) domain.VisualType {
	d := strings.ToLower(description)
	for _, rule := range classRules {
		for _, kw := range rule.keywords {
			if strings.Contains(d, kw) {
				return rule.kind
			}
		}
	}
	return domain.VisualGenericFigure
}
