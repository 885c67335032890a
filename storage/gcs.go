package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStore struct {
	client     *storage.Client
	bucket     string
	publicBase string
}

// NewGCSStore authenticates with the service-account file when one is given
// and with application default credentials otherwise.
func NewGCSStore(ctx context.Context, bucket, credentialsFile, publicBase string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	if publicBase == "" {
		publicBase = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{client: client, bucket: bucket, publicBase: publicBase}, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, body io.Reader, _ int64, contentType string) (string, error) {
	o := s.client.Bucket(s.bucket).Object(name).If(storage.Conditions{DoesNotExist: true})
	w := o.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return publicURL(s.publicBase, s.bucket, name), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
