package compression

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the tiktoken encoding used for token estimates. Counts are
// approximate by contract; model-specific tokenizer accuracy is out of scope.
const tokenEncoding = "cl100k_base"

//nolint:gochecknoglobals // Encoding data is expensive to load; shared lazily.
var (
	tokenEnc     *tiktoken.Tiktoken
	tokenEncOnce sync.Once
)

// Stats summarizes the effect of one compression run.
type Stats struct {
	OriginalBytes    int     `json:"original_bytes"`
	CompressedBytes  int     `json:"compressed_bytes"`
	OriginalTokens   int     `json:"original_tokens"`
	CompressedTokens int     `json:"compressed_tokens"`
	Ratio            float64 `json:"ratio"`
}

// MeasureStats computes byte and approximate token savings for a
// compression run.
func MeasureStats(original, compressed string) Stats {
	stats := Stats{
		OriginalBytes:    len(original),
		CompressedBytes:  len(compressed),
		OriginalTokens:   EstimateTokens(original),
		CompressedTokens: EstimateTokens(compressed),
		Ratio:            1.0,
	}

	if stats.OriginalBytes > 0 {
		stats.Ratio = float64(stats.CompressedBytes) / float64(stats.OriginalBytes)
	}

	return stats
}

// EstimateTokens returns the approximate token count of text. It uses the
// cl100k_base encoding when available and falls back to a whitespace word
// count when the encoding data cannot be loaded.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	tokenEncOnce.Do(func() {
		tokenEnc, _ = tiktoken.GetEncoding(tokenEncoding)
	})

	if tokenEnc == nil {
		return len(strings.Fields(text))
	}

	return len(tokenEnc.Encode(text, nil, nil))
}
