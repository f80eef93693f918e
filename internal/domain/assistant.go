package domain

import "context"

// Assistant is the delegated LLM assistant. Tool selection and reasoning
// happen entirely on the provider side.
type Assistant interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// QueryKind is the routing class of a user query.
type QueryKind string

const (
	QueryKindCode QueryKind = "code"
	QueryKindMath QueryKind = "math"
)
