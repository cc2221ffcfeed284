package vision

import "strings"

var englishMathKeywords = []string{
	"diagram", "chart", "graph", "table", "mathematical expression",
	"formula", "image", "figure", "equation", "plot", "grid",
	"coordinate", "axis", "line", "curve", "geometric", "triangle",
	"circle", "rectangle", "polygon", "shape", "drawing", "illustration",
}

var gujaratiMathKeywords = []string{
	"આકૃતિ", "ચાર્ટ", "આલેખ", "કોષ્ટક", "સૂત્ર", "સમીકરણ",
	"ત્રિકોણ", "વર્તુળ", "ચતુર્ભુજ", "રેખાકૃતિ", "ચિત્ર",
}

// IsMathematical reports whether a localized object label looks like
// mathematical content worth keeping as a page visual.
func IsMathematical(label string) bool {
	lower := strings.ToLower(label)
	for _, kw := range englishMathKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range gujaratiMathKeywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
