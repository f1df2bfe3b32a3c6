package compression

import (
	"sort"
	"strings"
	"unicode"
)

// StrategyAbbreviation is the registry name of the abbreviation strategy.
const StrategyAbbreviation = "abbreviation"

// abbreviations maps common words to shorter replacements. Matching is
// word-boundary aware and case-sensitive.
var abbreviations = map[string]string{
	"something":     "sth",
	"someone":       "sb",
	"please":        "pls",
	"people":        "ppl",
	"because":       "bc",
	"between":       "btw",
	"through":       "thru",
	"without":       "w/o",
	"with":          "w/",
	"about":         "abt",
	"message":       "msg",
	"document":      "doc",
	"documents":     "docs",
	"information":   "info",
	"application":   "app",
	"configuration": "config",
	"environment":   "env",
	"management":    "mgmt",
	"development":   "dev",
	"production":    "prod",
	"database":      "db",
	"number":        "num",
	"maximum":       "max",
	"minimum":       "min",
	"average":       "avg",
	"example":       "ex",
	"versus":        "vs",
	"approximately": "approx",
	"temperature":   "temp",
	"introduction":  "intro",
}

// Abbreviation replaces a fixed list of common words with shorter
// abbreviations. Reverse performs the inverse substitution and always prefers
// expansion: if the source text legitimately contained an abbreviation (for
// instance a literal "pls"), the round trip is lossy by contract.
type Abbreviation struct {
	// words sorted longest first so "documents" wins over "document".
	words   []string
	toShort map[string]string
	toLong  map[string]string
	reverse []string
}

// NewAbbreviation creates the abbreviation strategy with the built-in table.
func NewAbbreviation() *Abbreviation {
	a := &Abbreviation{
		words:   make([]string, 0, len(abbreviations)),
		toShort: make(map[string]string, len(abbreviations)),
		toLong:  make(map[string]string, len(abbreviations)),
		reverse: make([]string, 0, len(abbreviations)),
	}

	for word, short := range abbreviations {
		a.words = append(a.words, word)
		a.toShort[word] = short
		a.toLong[short] = word
		a.reverse = append(a.reverse, short)
	}

	sort.SliceStable(a.words, func(i, j int) bool {
		if len(a.words[i]) != len(a.words[j]) {
			return len(a.words[i]) > len(a.words[j])
		}
		return a.words[i] < a.words[j]
	})
	sort.SliceStable(a.reverse, func(i, j int) bool {
		if len(a.reverse[i]) != len(a.reverse[j]) {
			return len(a.reverse[i]) > len(a.reverse[j])
		}
		return a.reverse[i] < a.reverse[j]
	})

	return a
}

// Name returns the strategy identifier.
func (a *Abbreviation) Name() string {
	return StrategyAbbreviation
}

// Apply replaces whole words from the abbreviation table.
func (a *Abbreviation) Apply(text string) string {
	return substituteWords(text, a.words, a.toShort)
}

// Reverse expands abbreviations back to their full words.
func (a *Abbreviation) Reverse(text string) (string, error) {
	return substituteWords(text, a.reverse, a.toLong), nil
}

// Reversible reports that abbreviation substitution is reversible, with the
// documented lossiness around colliding short words.
func (a *Abbreviation) Reversible() bool {
	return true
}

// substituteWords replaces every boundary-delimited occurrence of the given
// words, preferring longer matches at each position.
func substituteWords(text string, words []string, table map[string]string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for i := 0; i < len(text); {
		if !isWordBoundary(text, i) {
			builder.WriteByte(text[i])
			i++
			continue
		}

		matched := false
		for _, word := range words {
			end := i + len(word)
			if end > len(text) || text[i:end] != word {
				continue
			}
			// The match must end at a word boundary too.
			if end < len(text) && isWordRune(rune(text[end])) {
				continue
			}
			builder.WriteString(table[word])
			i = end
			matched = true
			break
		}
		if matched {
			continue
		}

		builder.WriteByte(text[i])
		i++
	}

	return builder.String()
}

// isWordBoundary reports whether position i starts a new word.
func isWordBoundary(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordRune(rune(text[i-1]))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
