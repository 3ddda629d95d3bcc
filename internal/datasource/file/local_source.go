// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a filesystem data source bound to a single path.
type Local struct{ path string }

// NewLocal returns a Local data source for the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context that is already done
// short-circuits before touching the filesystem. Filesystem errors are
// wrapped with the path but remain inspectable via errors.Is (e.g.
// os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Path reports the bound filesystem path, used for labeling results and logs.
func (l *Local) Path() string { return l.path }
