package compression

import (
	"sort"
	"strings"
)

// StrategySymbol is the registry name of the symbol substitution strategy.
const StrategySymbol = "symbol"

// symbolPlaceholderBase is the first code point of the reserved placeholder
// range. Placeholders are drawn from the Unicode private use area so they can
// never collide with natural-language input.
const symbolPlaceholderBase = ''

// symbolPhrases lists the multi-character tokens replaced by single
// placeholder code points. Matching is case-sensitive; placeholders are
// assigned in declaration order starting at symbolPlaceholderBase.
var symbolPhrases = []string{
	"in order to",
	"I would like",
	"for example",
	"please provide",
	"as well as",
	"make sure",
	"such as",
	"thank you",
	"could you",
	"can you",
	"explain",
	"summarize",
	"translate",
	"generate",
	"important",
	"information",
	"question",
	"response",
	"function",
	"because",
	"should",
	"would",
	"could",
	"which",
	"there",
	"their",
	"about",
	"that",
	"this",
	"with",
	"from",
	"have",
	"will",
	"your",
	"the",
	"and",
	"for",
	"you",
}

// Symbol replaces common multi-character phrases with single placeholder code
// points from a reserved private use range. Apply scans left to right with
// greedy longest-match-first semantics; Reverse performs the direct
// placeholder-to-phrase substitution.
//
// Known limitation: decompression is undefined if the input text already
// contained a reserved placeholder code point before compression. The
// placeholder range is outside every natural-language alphabet, so this is
// not corrected here.
type Symbol struct {
	// phrases sorted longest first for greedy matching.
	phrases       []string
	toPlaceholder map[string]rune
	toPhrase      map[rune]string
}

// NewSymbol creates the symbol substitution strategy with the built-in
// phrase dictionary.
func NewSymbol() *Symbol {
	s := &Symbol{
		phrases:       make([]string, len(symbolPhrases)),
		toPlaceholder: make(map[string]rune, len(symbolPhrases)),
		toPhrase:      make(map[rune]string, len(symbolPhrases)),
	}

	for i, phrase := range symbolPhrases {
		placeholder := symbolPlaceholderBase + rune(i)
		s.toPlaceholder[phrase] = placeholder
		s.toPhrase[placeholder] = phrase
		s.phrases[i] = phrase
	}

	sort.SliceStable(s.phrases, func(i, j int) bool {
		return len(s.phrases[i]) > len(s.phrases[j])
	})

	return s
}

// Name returns the strategy identifier.
func (s *Symbol) Name() string {
	return StrategySymbol
}

// Apply replaces dictionary phrases with their placeholder code points,
// scanning left to right and preferring the longest match at each position.
func (s *Symbol) Apply(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for i := 0; i < len(text); {
		matched := false
		for _, phrase := range s.phrases {
			if strings.HasPrefix(text[i:], phrase) {
				builder.WriteRune(s.toPlaceholder[phrase])
				i += len(phrase)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		builder.WriteByte(text[i])
		i++
	}

	return builder.String()
}

// Reverse substitutes each placeholder code point back to its phrase.
func (s *Symbol) Reverse(text string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		if phrase, ok := s.toPhrase[r]; ok {
			builder.WriteString(phrase)
			continue
		}
		builder.WriteRune(r)
	}

	return builder.String(), nil
}

// Reversible reports that symbol substitution is reversible by contract.
func (s *Symbol) Reversible() bool {
	return true
}
