package compression_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearthlabs/ember/internal/compression"
)

func TestNewPipeline_UnknownStrategy(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.NewPipeline(r, compression.StrategySymbol, "bogus")
	require.Nil(t, pipeline)

	var unknownErr *compression.UnknownStrategyError
	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, "bogus", unknownErr.Name)
}

func TestNewPipeline_RequiresStrategies(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.NewPipeline(r)
	require.Nil(t, pipeline)
	require.Error(t, err)
}

func TestDefaultPipeline(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.DefaultPipeline(r, false)
	require.NoError(t, err)
	require.Equal(t, []string{
		compression.StrategySymbol,
		compression.StrategyAbbreviation,
	}, pipeline.Names())

	withBytes, err := compression.DefaultPipeline(r, true)
	require.NoError(t, err)
	require.Equal(t, []string{
		compression.StrategySymbol,
		compression.StrategyAbbreviation,
		compression.StrategyByteCompress,
	}, withBytes.Names())
}

func TestPipeline_RoundTrip_FullyReversible(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.NewPipeline(r,
		compression.StrategySymbol,
		compression.StrategyByteCompress,
	)
	require.NoError(t, err)

	input := "thank you for the information, could you explain the function?"
	compressed := pipeline.Compress(input)
	require.NotEqual(t, input, compressed)

	result, err := pipeline.Decompress(compressed)
	require.NoError(t, err)
	require.True(t, result.FullyReversible)
	require.Equal(t, input, result.Text)
}

func TestPipeline_LossyStageClearsReversibility(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.NewPipeline(r,
		compression.StrategySymbol,
		compression.StrategyVowelRemoval,
	)
	require.NoError(t, err)

	input := "please summarize the documentation"
	compressed := pipeline.Compress(input)

	result, err := pipeline.Decompress(compressed)
	require.NoError(t, err)
	require.False(t, result.FullyReversible)
	// Symbol placeholders still come back even though vowels are gone.
	require.NotContains(t, result.Text, string(rune(0xE000)))
}

func TestPipeline_Decompress_MalformedByteStage(t *testing.T) {
	r := compression.NewRegistry()

	pipeline, err := compression.NewPipeline(r,
		compression.StrategySymbol,
		compression.StrategyByteCompress,
	)
	require.NoError(t, err)

	result, err := pipeline.Decompress("!!!corrupted!!!")
	require.Error(t, err)
	require.ErrorIs(t, err, compression.ErrMalformedByteStream)
	require.Contains(t, err.Error(), "stage bytecompress")
	require.False(t, result.FullyReversible)
	// Best-effort: the remaining stages still ran on the raw input.
	require.NotEmpty(t, result.Text)
}

func TestPipeline_Compress_AppliesInOrder(t *testing.T) {
	r := compression.NewRegistry()

	// symbol first collapses "information" to a placeholder, so the
	// abbreviation stage never sees it.
	symbolFirst, err := compression.NewPipeline(r,
		compression.StrategySymbol,
		compression.StrategyAbbreviation,
	)
	require.NoError(t, err)

	abbrevFirst, err := compression.NewPipeline(r,
		compression.StrategyAbbreviation,
		compression.StrategySymbol,
	)
	require.NoError(t, err)

	input := "information"
	require.NotEqual(t, symbolFirst.Compress(input), abbrevFirst.Compress(input))
}
