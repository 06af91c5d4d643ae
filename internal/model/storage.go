package model

import (
	"context"
	"io"
)

// Storage abstracts the object store holding bulk import files.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
