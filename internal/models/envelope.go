package models

// Envelope is the uniform success response shape: the payload plus an
// ordered list of context strings (typically the executed query text)
// shown in the frontend's "learn more" panel.
type Envelope[T any] struct {
	Data    T        `json:"data"`
	Context []string `json:"context"`
}

// NewEnvelope wraps data with its narration lines, preserving call order.
func NewEnvelope[T any](data T, context ...string) Envelope[T] {
	return Envelope[T]{Data: data, Context: context}
}
