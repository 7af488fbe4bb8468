package domain

// Source tells which path produced a result.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Outcome is the tagged result of an orchestrated analysis. Value is always
// schema-complete; Cause is set only when Source is SourceFallback because
// the LLM path failed.
type Outcome[T any] struct {
	Value  T
	Source Source
	Cause  error
}

// FromLLM wraps a value produced by the model.
func FromLLM[T any](v T) Outcome[T] { return Outcome[T]{Value: v, Source: SourceLLM} }

// FromFallback wraps a rule-based value and the failure that triggered it.
func FromFallback[T any](v T, cause error) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceFallback, Cause: cause}
}

// Degraded reports whether the rule-based path produced the value.
func (o Outcome[T]) Degraded() bool { return o.Source == SourceFallback }

// Kind classifies the failure that caused degradation.
func (o Outcome[T]) Kind() ErrorKind { return KindOf(o.Cause) }

// Note returns DegradedNote for degraded outcomes and "" otherwise.
func (o Outcome[T]) Note() string {
	if o.Degraded() {
		return DegradedNote
	}
	return ""
}
