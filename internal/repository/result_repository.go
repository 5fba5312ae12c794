package repository

import (
	"context"
	"errors"
	"io"

	"text-analyzer/internal/domain/entity"
)

var (
	// ErrResultNotFound indicates that no result has been saved under the key yet.
	ErrResultNotFound = errors.New("result not found")

	// ErrInvalidResultKey indicates a key that is not a canonical session ID.
	ErrInvalidResultKey = errors.New("invalid result key")
)

// ResultRepository persists the latest analysis result per key.
// The empty key addresses the single shared result used by the command line.
type ResultRepository interface {
	// Save overwrites the result stored under key and returns its location.
	Save(ctx context.Context, key string, result entity.Result) (string, error)
	// Open returns the stored result file. Returns ErrResultNotFound if nothing was saved.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
