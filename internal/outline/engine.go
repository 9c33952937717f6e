package outline

import (
	"log"
	"time"
)

// strategy is a single extraction approach. attempt returns a candidate
// outline, nil when the approach found nothing, or an error when the
// document itself could not be processed.
type strategy interface {
	name() string
	attempt(path string, b *Budget) (*Outline, error)
}

// gatedStrategy pairs a strategy with the minimum remaining budget it
// needs to be worth starting at all
type gatedStrategy struct {
	strategy
	gate time.Duration
}

// Engine runs the extraction cascade: embedded metadata first, then the
// layout heuristics, then the textual pattern fallback, accepting the
// first candidate that passes structural validation.
//
// The engine holds no per-call state; a fresh Budget is scoped to every
// call, so a single instance is safe for concurrent use across documents.
type Engine struct {
	cfg        Config
	validator  *Validator
	strategies []gatedStrategy
}

// NewEngine creates an engine with the default configuration
func NewEngine(provider ContentProvider) *Engine {
	return NewEngineWithConfig(provider, DefaultConfig())
}

// NewEngineWithConfig creates an engine with a custom configuration
func NewEngineWithConfig(provider ContentProvider, cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		validator: NewValidator(cfg.MinHeadings, cfg.MaxHeadings),
		strategies: []gatedStrategy{
			{strategy: newTOCExtractor(provider, cfg.TOC)},
			{strategy: newHeuristicExtractor(provider, cfg.Heuristic), gate: cfg.HeuristicGate},
			{strategy: newPatternExtractor(provider, cfg.Fallback), gate: cfg.FallbackGate},
		},
	}
}

// ExtractOutline extracts the outline of one document. It always returns
// a well-formed Outline: total failure degrades to a placeholder, an
// unrecoverable document fault degrades to the error placeholder. Errors
// are never propagated to the caller.
func (e *Engine) ExtractOutline(path string) Outline {
	return e.extract(path, StartBudget(e.cfg.MaxRuntime))
}

func (e *Engine) extract(path string, b *Budget) (result Outline) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[error] panic while processing %s: %v", path, r)
			result = Outline{Title: ErrorTitle, Headings: []Heading{}}
		}
	}()

	for _, s := range e.strategies {
		if s.gate > 0 && b.Remaining() <= s.gate {
			continue
		}
		candidate, err := s.attempt(path, b)
		if err != nil {
			log.Printf("[error] processing %s: %v", path, err)
			return Outline{Title: ErrorTitle, Headings: []Heading{}}
		}
		if !e.validator.Valid(candidate) {
			log.Printf("[info] %s extraction yielded no usable outline for %s", s.name(), path)
			continue
		}
		log.Printf("[info] %s extraction completed in %.2f seconds (max allowed: %.0fs)",
			s.name(), b.Elapsed().Seconds(), b.Max().Seconds())
		return *candidate
	}

	return Outline{Title: PlaceholderTitle, Headings: []Heading{}}
}
