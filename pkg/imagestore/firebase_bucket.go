package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseBucket uploads objects to a Firebase Storage bucket and returns
// token download URLs.
type FirebaseBucket struct {
	bucket *storage.BucketHandle
	name   string
}

// NewFirebaseBucket creates a new FirebaseBucket
func NewFirebaseBucket(bucket *storage.BucketHandle, name string) *FirebaseBucket {
	return &FirebaseBucket{bucket: bucket, name: name}
}

func (b *FirebaseBucket) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	token := uuid.NewString()
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	return DownloadURL(b.name, name, token), nil
}

// DownloadURL is the public Firebase Storage URL of an object.
func DownloadURL(bucket, object, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(object), token)
}
