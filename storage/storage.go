// Package storage puts uploaded files into object storage: any S3-compatible
// service (AWS S3, Cloudflare R2, MinIO) or Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atmacsn/agriadmin/utils"
	"github.com/google/uuid"
)

type ObjectStore interface {
	// Put stores body under name and returns its public URL.
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
}

// ObjectName builds "uploads/<unix>-<uuid>-<slug>.<ext>" from the client's
// file name.
func ObjectName(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	slug := utils.GenerateSlug(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if slug == "" {
		slug = "file"
	}
	return fmt.Sprintf("uploads/%d-%s-%s%s", now.Unix(), uuid.NewString(), slug, ext)
}

func publicURL(base, bucket, objectName string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return fmt.Sprintf("/%s/%s", bucket, objectName)
	}
	return fmt.Sprintf("%s/%s", base, objectName)
}
