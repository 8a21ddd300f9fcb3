package model

import (
	"context"
	"io"
)

// Storage holds the raw bytes of uploaded files, addressed by an
// id-derived key rather than the user-supplied filename.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
