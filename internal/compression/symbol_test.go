package compression_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/hearthlabs/ember/internal/compression"
)

func TestSymbol_Apply_ReplacesPhrases(t *testing.T) {
	s := compression.NewSymbol()

	out := s.Apply("in order to win")

	// The phrase collapses to a single placeholder code point.
	require.Less(t, len(out), len("in order to win"))
	require.Equal(t, utf8.RuneCountInString("X win"), utf8.RuneCountInString(out))
}

func TestSymbol_Apply_PrefersLongestMatch(t *testing.T) {
	s := compression.NewSymbol()

	// "could you" must win over "could" at the same position.
	out := s.Apply("could you help")

	restored, err := s.Reverse(out)
	require.NoError(t, err)
	require.Equal(t, "could you help", restored)
	require.Equal(t, 1+len(" help"), len([]rune(out)))
}

func TestSymbol_RoundTrip(t *testing.T) {
	s := compression.NewSymbol()

	inputs := []string{
		"",
		"no dictionary words here: zzz qqq",
		"thank you for the information about the function",
		"I would like you to explain this, because it is important",
		"mixed Unicode: héllo wörld, for example ünïcode",
	}

	for _, input := range inputs {
		out := s.Apply(input)
		restored, err := s.Reverse(out)
		require.NoError(t, err)
		require.Equal(t, input, restored)
	}
}

func TestSymbol_Reverse_PassesUnknownRunesThrough(t *testing.T) {
	s := compression.NewSymbol()

	restored, err := s.Reverse("plain text, no placeholders")
	require.NoError(t, err)
	require.Equal(t, "plain text, no placeholders", restored)
}

func TestSymbol_Reversible(t *testing.T) {
	require.True(t, compression.NewSymbol().Reversible())
}

func TestSymbol_CaseSensitive(t *testing.T) {
	s := compression.NewSymbol()

	// "Explain" (capitalized) is not in the dictionary.
	out := s.Apply("Explain")
	require.Equal(t, "Explain", out)
}
