package compression

import (
	"fmt"
)

// DefaultPipelineNames is the pipeline used when the caller asks for default
// compression settings.
var DefaultPipelineNames = []string{StrategySymbol, StrategyAbbreviation}

// Result is the outcome of a decompression run.
type Result struct {
	// Text is the best achievable reconstruction of the original input.
	Text string

	// FullyReversible is false when a non-reversible stage participated in
	// compression or a stage failed structurally; callers must not assume
	// Text equals the pre-compression input in that case.
	FullyReversible bool
}

// Pipeline is an immutable ordered sequence of compression strategies.
// Compress applies the stages in declared order; Decompress reverses them in
// the opposite order. The same pipeline identity must be used for both
// directions.
type Pipeline struct {
	names      []string
	strategies []Strategy
}

// NewPipeline resolves the named strategies against the registry. Every name
// must resolve, otherwise construction fails with UnknownStrategyError.
func NewPipeline(registry *Registry, names ...string) (*Pipeline, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("pipeline requires at least one strategy")
	}

	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		strategy, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}

	return &Pipeline{
		names:      append([]string(nil), names...),
		strategies: strategies,
	}, nil
}

// DefaultPipeline builds the default pipeline: symbol and abbreviation
// substitution, with byte compression appended as the final stage when
// requested. Byte compression must operate on the final flattened text, so
// it is always last on compress and first reversed on decompress.
func DefaultPipeline(registry *Registry, useByteCompression bool) (*Pipeline, error) {
	names := append([]string(nil), DefaultPipelineNames...)
	if useByteCompression {
		names = append(names, StrategyByteCompress)
	}
	return NewPipeline(registry, names...)
}

// Names returns the strategy names in compression order.
func (p *Pipeline) Names() []string {
	return append([]string(nil), p.names...)
}

// Compress applies every stage in declared order, feeding each stage's
// output to the next.
func (p *Pipeline) Compress(text string) string {
	for _, strategy := range p.strategies {
		text = strategy.Apply(text)
	}
	return text
}

// Decompress applies each stage's Reverse in reverse pipeline order.
// Non-reversible stages are skipped (pass-through) and the result reports
// FullyReversible=false. When a stage fails structurally, its reversal is
// dropped, the remaining stages still attempt best-effort reversal, and the
// first stage error is returned alongside the best-effort result.
func (p *Pipeline) Decompress(text string) (Result, error) {
	result := Result{
		Text:            text,
		FullyReversible: true,
	}

	var firstErr error
	for i := len(p.strategies) - 1; i >= 0; i-- {
		strategy := p.strategies[i]

		if !strategy.Reversible() {
			result.FullyReversible = false
			continue
		}

		reversed, err := strategy.Reverse(result.Text)
		if err != nil {
			result.FullyReversible = false
			if firstErr == nil {
				firstErr = fmt.Errorf("stage %s: %w", strategy.Name(), err)
			}
			continue
		}
		result.Text = reversed
	}

	return result, firstErr
}
