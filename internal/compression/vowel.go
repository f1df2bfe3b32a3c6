package compression

import (
	"strings"
	"unicode"
)

// StrategyVowelRemoval is the registry name of the vowel removal strategy.
const StrategyVowelRemoval = "vowelremoval"

// defaultMinWordLength is the smallest word length vowel removal touches.
const defaultMinWordLength = 4

// VowelRemoval strips non-leading vowels from words longer than a configured
// minimum length. The first letter of every word is always kept. The strategy
// is declared non-reversible: Reverse passes text through unchanged and the
// pipeline surfaces the lossy result to the caller.
type VowelRemoval struct {
	minWordLength int
}

// NewVowelRemoval creates the vowel removal strategy. A minWordLength of zero
// or less selects the default.
func NewVowelRemoval(minWordLength int) *VowelRemoval {
	if minWordLength <= 0 {
		minWordLength = defaultMinWordLength
	}
	return &VowelRemoval{minWordLength: minWordLength}
}

// Name returns the strategy identifier.
func (v *VowelRemoval) Name() string {
	return StrategyVowelRemoval
}

// Apply removes non-leading vowels from each qualifying word.
func (v *VowelRemoval) Apply(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		builder.WriteString(v.compressWord(word))
		word = word[:0]
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			word = append(word, r)
			continue
		}
		flush()
		builder.WriteRune(r)
	}
	flush()

	return builder.String()
}

// Reverse is a pass-through: stripped vowels cannot be restored.
func (v *VowelRemoval) Reverse(text string) (string, error) {
	return text, nil
}

// Reversible reports that vowel removal is lossy.
func (v *VowelRemoval) Reversible() bool {
	return false
}

// compressWord drops vowels after the first letter of words that exceed the
// minimum length.
func (v *VowelRemoval) compressWord(word []rune) string {
	if len(word) <= v.minWordLength {
		return string(word)
	}

	out := make([]rune, 0, len(word))
	out = append(out, word[0])
	for _, r := range word[1:] {
		if isVowel(r) {
			continue
		}
		out = append(out, r)
	}

	return string(out)
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
