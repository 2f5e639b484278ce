package llm

import (
	"errors"
	"fmt"

	"digicreative/internal/content"
)

var ErrMissingCredential = errors.New("missing API credential")

// NetworkError is a transport or endpoint failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// SchemaMismatchError means the response text does not parse as the declared shape.
type SchemaMismatchError struct {
	Raw string
	Err error
}

func (e *SchemaMismatchError) Error() string { return fmt.Sprintf("schema mismatch: %v", e.Err) }

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

type EmptyResultError struct {
	Op string
}

func (e *EmptyResultError) Error() string { return fmt.Sprintf("%s: no inline data in response", e.Op) }

type GenerationError struct {
	Op   string
	Kind content.Kind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsSchemaMismatch(err error) bool {
	var target *SchemaMismatchError
	return errors.As(err, &target)
}

func IsEmptyResult(err error) bool {
	var target *EmptyResultError
	return errors.As(err, &target)
}
