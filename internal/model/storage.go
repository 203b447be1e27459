package model

import (
	"context"
	"io"
)

// Storage stores uploaded media and hands back durable URLs.
type Storage interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
