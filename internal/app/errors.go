package app

import "errors"

// ErrInvalidQuery rejects empty or whitespace-only search queries and
// questions.
var ErrInvalidQuery = errors.New("query must not be empty")

// ProviderError wraps a failure from an external collaborator (embedding
// provider, vector index, LLM, storage), preserving the underlying message.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
