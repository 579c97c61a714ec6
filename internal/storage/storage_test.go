package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/")

	loc, err := store.Put(context.Background(), "assignments/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/assignments/a.txt", loc)

	data, err := os.ReadFile(filepath.Join(dir, "assignments", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStore_PutStaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads")

	loc, err := store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.txt", loc)
	assert.FileExists(t, filepath.Join(dir, "escape.txt"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStore_PutFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads")

	loc, err := store.Put(context.Background(), "assignments/broken.txt", failingReader{}, 10, "text/plain")
	require.Error(t, err)
	assert.Empty(t, loc)
	assert.NoFileExists(t, filepath.Join(dir, "assignments", "broken.txt"))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "dlsms-files")

	loc, err := store.Put(context.Background(), "assignments/b.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://dlsms-files/assignments/b.pdf", loc)
	assert.Equal(t, "dlsms-files", aws.ToString(client.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "pdf", client.body)
}

func TestS3Store_PutError(t *testing.T) {
	store := NewS3Store(&fakeS3{err: errors.New("denied")}, "dlsms-files")

	_, err := store.Put(context.Background(), "k", strings.NewReader(""), 0, "text/plain")
	assert.Error(t, err)
}
