package domain

// Inferrer derives a topology from a fully materialized log.
// Implementations may scan the entries any number of times but must not
// retain or modify the slice.
type Inferrer interface {
	// Name returns the registry name of the inferrer
	Name() string

	// Infer returns the topology described by entries, or an error wrapping
	// ErrInferenceFailed when no topology can be recognized
	Infer(entries []*LogEntry) (*TopologySnapshot, error)
}

// InferrerFunc adapts a function to the Inferrer interface
type InferrerFunc func(entries []*LogEntry) (*TopologySnapshot, error)

// Name implements Inferrer
func (f InferrerFunc) Name() string { return "func" }

// Infer implements Inferrer
func (f InferrerFunc) Infer(entries []*LogEntry) (*TopologySnapshot, error) {
	return f(entries)
}
