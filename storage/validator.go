package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	DefaultExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}
	DefaultMimeTypes  = []string{"application/pdf", "image/jpeg", "image/png"}
)

const DefaultMaxUploadMB = 5

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidFileType  = errors.New("invalid file type")
)

// FileValidator accepts an upload by size, extension and the MIME type
// sniffed from its first bytes.
type FileValidator struct {
	allowedExt  map[string]bool
	allowedMime map[string]bool
	maxSize     int64
}

func NewFileValidator(extensions, mimeTypes []string, maxMB int) *FileValidator {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if len(mimeTypes) == 0 {
		mimeTypes = DefaultMimeTypes
	}
	if maxMB <= 0 {
		maxMB = DefaultMaxUploadMB
	}

	v := &FileValidator{
		allowedExt:  make(map[string]bool, len(extensions)),
		allowedMime: make(map[string]bool, len(mimeTypes)),
		maxSize:     int64(maxMB) << 20,
	}
	for _, ext := range extensions {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		v.allowedExt[ext] = true
	}
	for _, m := range mimeTypes {
		if m = strings.TrimSpace(strings.ToLower(m)); m != "" {
			v.allowedMime[m] = true
		}
	}
	return v
}

func (v *FileValidator) MaxSize() int64 {
	return v.maxSize
}

// ValidateFile returns the sniffed MIME type of an acceptable file.
func (v *FileValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("%w (max %d MB)", ErrFileTooLarge, v.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !v.allowedExt[ext] {
		return "", ErrInvalidExtension
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil || n == 0 {
		return "", fmt.Errorf("failed to read file header")
	}

	detected := strings.ToLower(http.DetectContentType(buffer[:n]))
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	if !v.allowedMime[detected] {
		return "", ErrInvalidFileType
	}
	return detected, nil
}
