// backend-go/internal/storage/storage.go
package storage

import "context"

// ObjectStorage archives run artifacts (the zip bundle and the log) in an
// object store so they survive local disk cleanup.
type ObjectStorage interface {
	// Upload stores the local file under objectName and returns the object URL.
	Upload(ctx context.Context, localPath, objectName, contentType string) (string, error)
}
