// Package datasource abstracts where raw input bytes come from, so the
// pipeline can read local exports today and remote ones later without
// touching the extraction code.
package datasource

import (
	"context"
	"io"
)

// Source opens a readable stream of raw input data.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
