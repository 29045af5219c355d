package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for convention-insensitive matching.
// CamelCase is tokenized first so acronyms survive, then every token is
// lowercased and separators (_, -, space) are dropped.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, token := range tokenizeCamelCase(s) {
		b.WriteString(strings.ToLower(token))
	}

	return b.String()
}

// tokenizeCamelCase splits a CamelCase, camelCase or snake_case string into tokens.
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "humidity_percentage" -> ["humidity", "percentage"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports whether a new token begins at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// lower -> Upper: "orderID" splits before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
