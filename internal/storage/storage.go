package storage

import (
	"context"
	"io"
)

// FileStore persists attachment bytes under a storage name chosen by the caller.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
}
