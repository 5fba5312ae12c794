// Package file provides a file-system implementation of the result repository.
//
// Layout under the base directory:
//
//	<dir>/summary_result.txt            shared result (empty key)
//	<dir>/<session-uuid>/summary_result.txt
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/repository"
)

// ResultRepo stores results as UTF-8 text files.
type ResultRepo struct {
	dir string
}

// NewResultRepo creates a repository rooted at dir. The directory is created on first save.
func NewResultRepo(dir string) *ResultRepo {
	return &ResultRepo{dir: dir}
}

// Path returns where the result for key lives.
// Non-empty keys must be canonical UUID strings so they cannot escape the base directory.
func (r *ResultRepo) Path(key string) (string, error) {
	if key == "" {
		return filepath.Join(r.dir, entity.ResultFileName), nil
	}

	id, err := uuid.Parse(key)
	if err != nil || id.String() != key {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidResultKey, key)
	}

	return filepath.Join(r.dir, key, entity.ResultFileName), nil
}

// Save writes the result file for key, replacing any previous content.
// The file is written to a temporary name and renamed into place, so readers
// and concurrent writers never observe a partial file.
func (r *ResultRepo) Save(ctx context.Context, key string, result entity.Result) (string, error) {
	path, err := r.Path(key)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create result directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary_result-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temporary result file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.WriteString(tmp, result.FileContent()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write result file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close result file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("replace result file: %w", err)
	}

	return path, nil
}

// Open opens the result file for key for reading.
func (r *ResultRepo) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := r.Path(key)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path is built from the base directory and a validated UUID
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrResultNotFound
		}
		return nil, fmt.Errorf("open result file: %w", err)
	}

	return f, nil
}
