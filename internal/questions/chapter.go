package questions

import (
	"path/filepath"
	"strings"
	"unicode"
)

// chapterFromFile turns "linear-equations.pdf" into "Linear Equations".
func chapterFromFile(source string) string {
	name := strings.ReplaceAll(filepath.Base(source), ".pdf", "")
	if name == "." {
		name = ""
	}
	return titleCase(strings.ReplaceAll(name, "-", " "))
}

// titleCase upper-cases a cased letter that follows an uncased character
// and lower-cases the rest. Scripts without case are left as they are.
func titleCase(s string) string {
	var b strings.Builder
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
