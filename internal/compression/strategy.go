// Package compression implements the prompt compression core: a set of
// independent text transform strategies, a registry resolving strategy names,
// and a pipeline that applies strategies in order and reverses them best-effort.
package compression

import (
	"errors"
	"fmt"
)

// Strategy is a stateless text transform. Implementations are created once
// and shared across requests; Apply and Reverse must be safe for concurrent use.
type Strategy interface {
	// Name returns the unique strategy identifier used in pipeline specs.
	Name() string

	// Apply transforms text into its compressed form.
	Apply(text string) string

	// Reverse transforms compressed text back toward the original.
	// For non-reversible strategies it returns the input unchanged.
	Reverse(text string) (string, error)

	// Reversible reports whether Reverse can restore Apply's input.
	// Even when true, restoration may be best-effort (see Symbol, Abbreviation).
	Reversible() bool
}

// ErrMalformedByteStream indicates the byte-compression stage could not be
// reversed because its input was corrupted or truncated.
var ErrMalformedByteStream = errors.New("malformed byte stream")

// UnknownStrategyError indicates a pipeline spec referenced a strategy name
// that is not present in the registry. It fails pipeline construction.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown compression strategy: %s", e.Name)
}
