package domain

import "fmt"

// Error taxonomy for the population pipeline. Generation failures are fatal to
// the current batch attempt; lookup failures are recoverable per candidate and
// feed the orchestrator's circuit breaker.

// GenerationError means the generative service was unreachable, timed out, or
// returned output that does not conform to the requested schema.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// LookupError means a brand search or detail call failed or timed out. The
// affected candidate is marked unresolved and skipped.
type LookupError struct {
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("brand lookup %q failed: %v", e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
