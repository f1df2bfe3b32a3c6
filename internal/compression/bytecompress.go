package compression

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
)

// StrategyByteCompress is the registry name of the byte compression strategy.
const StrategyByteCompress = "bytecompress"

// ByteCompress applies DEFLATE compression followed by base64 encoding so the
// output stays text-safe. It is the only strategy with an exact round-trip
// guarantee: Reverse(Apply(x)) == x for every byte sequence x.
//
// ByteCompress must always be the last stage of a pipeline: it has to operate
// on the final flattened text, not on intermediate placeholder text.
type ByteCompress struct {
	level int
}

// NewByteCompress creates a byte compression strategy using the default
// DEFLATE compression level.
func NewByteCompress() *ByteCompress {
	return &ByteCompress{level: flate.DefaultCompression}
}

// Name returns the strategy identifier.
func (b *ByteCompress) Name() string {
	return StrategyByteCompress
}

// Apply compresses text with DEFLATE and encodes the result as base64.
func (b *ByteCompress) Apply(text string) string {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, b.level)
	if err != nil {
		// Only reachable with an invalid level, which the constructor excludes.
		return text
	}

	if _, err := w.Write([]byte(text)); err != nil {
		return text
	}
	if err := w.Close(); err != nil {
		return text
	}

	return base64.RawStdEncoding.EncodeToString(buf.Bytes())
}

// Reverse decodes and decompresses text produced by Apply. Corrupted or
// truncated input fails with ErrMalformedByteStream; no partial result is
// returned.
func (b *ByteCompress) Reverse(text string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedByteStream, err)
	}

	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedByteStream, err)
	}

	return string(out), nil
}

// Reversible reports that byte compression is fully round-trip exact.
func (b *ByteCompress) Reversible() bool {
	return true
}
