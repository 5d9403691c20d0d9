package storage

import (
	"bytes"
	"context"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/pixcredit/pkg/helpers"
)

// GCSStore uploads generated images to a single bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Upload writes data to objectPath and returns the object's public URL.
func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, bytes.NewReader(data))
}
