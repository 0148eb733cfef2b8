package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("attachments", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["attachments"][0]
}

func TestSaveAndDeleteFile(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "http://files.local/uploads/", zerolog.Nop())
	require.NoError(t, err)

	fh := buildFileHeader(t, "photo.PNG", pngHeader)
	stored, err := ls.SaveFileWithPath(fh, "messages")
	require.NoError(t, err)

	assert.Equal(t, "photo.PNG", stored.OriginalName)
	assert.Equal(t, "image/png", stored.MimeType)
	assert.EqualValues(t, len(pngHeader), stored.Size)
	assert.Equal(t, ".png", filepath.Ext(stored.Path))
	assert.Equal(t, "http://files.local/uploads/"+stored.Path, stored.URL)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(stored.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored.Path)))
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, ls.DeleteFile(stored.Path))
}

func TestSaveDetectsPlainText(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", zerolog.Nop())
	require.NoError(t, err)

	stored, err := ls.SaveFileWithPath(buildFileHeader(t, "notes", []byte("hello there")), "")
	require.NoError(t, err)
	assert.Contains(t, stored.MimeType, "text/plain")
	assert.Equal(t, ".txt", filepath.Ext(stored.Path))
}

func TestCleanSubPathStaysInsideRoot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b", cleanSubPath("a/b"))
	assert.Equal(t, "etc/passwd", cleanSubPath("../../etc/passwd"))
	assert.Equal(t, "", cleanSubPath(""))
}

func TestSaveNilHeader(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", zerolog.Nop())
	require.NoError(t, err)
	_, err = ls.SaveFileWithPath(nil, "x")
	assert.Error(t, err)
}
