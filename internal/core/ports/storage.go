package ports

import (
	"context"
	"io"
)

// ObjectStorage is the object-store collaborator used for customer profile
// images. Unreachable backends surface as domain.ErrStorageUnavailable.
type ObjectStorage interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error
	// ObjectURL returns the public URL of a stored object.
	ObjectURL(bucket, key string) string
}
