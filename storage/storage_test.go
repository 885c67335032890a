package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Unix(1700000000, 0)
	name := ObjectName("Aadhar Card Scan.PDF", now)

	pattern := regexp.MustCompile(`^uploads/1700000000-[0-9a-f-]{36}-aadhar-card-scan\.pdf$`)
	assert.Regexp(t, pattern, name)

	assert.True(t, strings.HasSuffix(ObjectName("noext", now), "-noext.bin"))
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func TestFileValidator(t *testing.T) {
	v := NewFileValidator(nil, nil, 1)

	mime, err := v.ValidateFile(fileHeader(t, "photo.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	mime, err = v.ValidateFile(fileHeader(t, "doc.pdf", []byte("%PDF-1.4\n%...")))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	_, err = v.ValidateFile(fileHeader(t, "run.exe", pngHeader))
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = v.ValidateFile(fileHeader(t, "fake.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	big := append([]byte{}, pngHeader...)
	big = append(big, make([]byte, 2<<20)...)
	_, err = v.ValidateFile(fileHeader(t, "big.png", big))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFileValidatorNormalisesConfig(t *testing.T) {
	v := NewFileValidator([]string{"PNG", " .jpg "}, []string{"IMAGE/PNG"}, 0)
	assert.True(t, v.allowedExt[".png"])
	assert.True(t, v.allowedExt[".jpg"])
	assert.True(t, v.allowedMime["image/png"])
	assert.Equal(t, int64(DefaultMaxUploadMB)<<20, v.MaxSize())
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "farm-docs", publicBase: "https://files.example.org/"}

	url, err := store.Put(context.Background(), "uploads/a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.org/uploads/a.png", url)
	assert.Equal(t, "farm-docs", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "uploads/a.png", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, pngHeader, fake.body)
}

func TestNewS3StoreRequiresCredentials(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)
}
