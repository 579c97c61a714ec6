package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/dlsms/dlsms-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeaders builds real multipart file headers the way an HTTP request
// would carry them.
func uploadHeaders(t *testing.T, files map[string]string, contentType string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, body := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func TestMediaService_SaveUploads(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(storage.NewLocalStore(dir, "/uploads"), 1024)

	headers := uploadHeaders(t, map[string]string{"Lab Sheet.PDF": "%PDF-1.4"}, "application/pdf")
	files, err := svc.SaveUploads(context.Background(), headers)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "Lab Sheet.PDF", f.Name)
	assert.Equal(t, "application/pdf", f.MediaType)
	assert.Equal(t, int64(len("%PDF-1.4")), f.Size)
	assert.True(t, strings.HasPrefix(f.StoragePath, "/uploads/assignments/"))
	assert.True(t, strings.HasSuffix(f.StoragePath, ".pdf"))
}

func TestMediaService_MediaTypeFallback(t *testing.T) {
	svc := NewMediaService(storage.NewLocalStore(t.TempDir(), "/uploads"), 1024)

	files, err := svc.SaveUploads(context.Background(), uploadHeaders(t, map[string]string{"notes.bin": "x"}, ""))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", files[0].MediaType)
}

func TestMediaService_TooLarge(t *testing.T) {
	svc := NewMediaService(storage.NewLocalStore(t.TempDir(), "/uploads"), 4)

	_, err := svc.SaveUploads(context.Background(), uploadHeaders(t, map[string]string{"big.txt": "too large"}, "text/plain"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
