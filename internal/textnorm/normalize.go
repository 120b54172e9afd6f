// Package textnorm reduces free-text event titles and market questions to a
// comparable form for blocking and fuzzy matching.
package textnorm

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	nonAlnumSpace = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespace    = regexp.MustCompile(`\s+`)
	yearPattern   = regexp.MustCompile(`\b\d{4}\b`)
)

// stopwords are dropped during tokenization; they carry no matching signal.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "and": {}, "or": {}, "will": {}, "be": {}, "is": {}, "are": {},
	"this": {}, "that": {}, "by": {}, "vs": {}, "v": {},
}

// synonyms is a fixed expansion map applied after tokenization.
var synonyms = map[string]string{
	"cpi":     "inflation",
	"fed":     "federal reserve",
	"potus":   "president",
	"gdp":     "gross domestic product",
}

// normalize lowercases, strips diacritics, drops non-alphanumerics (except
// spaces) and collapses whitespace.
func normalize(text string) string {
	lower := strings.ToLower(text)
	stripped := stripDiacritics(lower)
	stripped = nonAlnumSpace.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(stripped, " "))
}

// Normalize is the exported entry point for normalize.
func Normalize(text string) string {
	return normalize(text)
}

func stripDiacritics(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(foldASCII(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldASCII best-effort folds a small set of common accented Latin letters to
// their ASCII base; anything else passes through unchanged.
func foldASCII(r rune) rune {
	switch r {
	case 'á', 'à', 'â', 'ä', 'ã':
		return 'a'
	case 'é', 'è', 'ê', 'ë':
		return 'e'
	case 'í', 'ì', 'î', 'ï':
		return 'i'
	case 'ó', 'ò', 'ô', 'ö', 'õ':
		return 'o'
	case 'ú', 'ù', 'û', 'ü':
		return 'u'
	case 'ñ':
		return 'n'
	case 'ç':
		return 'c'
	default:
		return r
	}
}

// Tokenize splits normalized text on whitespace, drops stopwords, and expands
// known synonyms.
func Tokenize(text string) []string {
	words := strings.Fields(normalize(text))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if expansion, ok := synonyms[w]; ok {
			tokens = append(tokens, strings.Fields(expansion)...)
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// SignificantTokens returns tokens of length >= 4, excluding stopwords.
func SignificantTokens(text string) []string {
	var out []string
	for _, t := range Tokenize(text) {
		if len(t) >= 4 {
			out = append(out, t)
		}
	}
	return out
}

// Ngrams returns every contiguous n-gram of tokens, joined by a single space.
func Ngrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// ExtractYears returns all 4-digit substrings in [1900, 2100].
func ExtractYears(text string) []int {
	var years []int
	for _, m := range yearPattern.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if y >= 1900 && y <= 2100 {
			years = append(years, y)
		}
	}
	return years
}
