package gen

import (
	"strconv"
	"strings"
	"unicode"
)

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
}

// exportName turns a context term into an exported Go identifier:
// "testClass" becomes "TestClass", "test-class" too.
func exportName(s string) string {
	parts := splitWords(s)
	var b strings.Builder
	for _, p := range parts {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// fieldName turns a context term into an unexported Go identifier, guarding
// language keywords.
func fieldName(s string) string {
	n := exportName(s)
	r := []rune(n)
	r[0] = unicode.ToLower(r[0])
	out := string(r)
	if goKeywords[out] {
		out += "_"
	}
	return out
}

func splitWords(s string) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	if len(parts) == 0 {
		parts = []string{"X"}
	}
	return parts
}

func quote(s string) string { return strconv.Quote(s) }

// formatBound renders a float bound as Go source, keeping integral values
// readable.
func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
