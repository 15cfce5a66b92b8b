package images

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSaveFromRequest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "/images/")
	require.NoError(t, err)

	url, err := s.SaveFromRequest(uploadRequest(t, FieldName, "photo.JPG", []byte("jpeg-bytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/images/"))
	require.True(t, strings.HasSuffix(url, ".jpg"))

	// Stored under a generated name, not the client's.
	require.False(t, strings.Contains(url, "photo"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), stored)
}

func TestSaveFromRequestNoFile(t *testing.T) {
	s, err := NewStore(t.TempDir(), "/images")
	require.NoError(t, err)

	_, err = s.SaveFromRequest(uploadRequest(t, "", "", nil))
	require.ErrorIs(t, err, ErrNoFile)

	_, err = s.SaveFromRequest(uploadRequest(t, "wrong_field", "pic.png", []byte("x")))
	require.ErrorIs(t, err, ErrNoFile)
}

func TestSaveFromRequestBadType(t *testing.T) {
	s, err := NewStore(t.TempDir(), "/images")
	require.NoError(t, err)

	_, err = s.SaveFromRequest(uploadRequest(t, FieldName, "script.sh", []byte("#!/bin/sh")))
	require.ErrorIs(t, err, ErrBadType)

	_, err = s.SaveFromRequest(uploadRequest(t, FieldName, "noext", []byte("x")))
	require.ErrorIs(t, err, ErrBadType)
}

func TestHandlerServesStoredFile(t *testing.T) {
	s, err := NewStore(t.TempDir(), "/images")
	require.NoError(t, err)

	url, err := s.SaveFromRequest(uploadRequest(t, FieldName, "pic.png", []byte("png-bytes")))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "png-bytes", rec.Body.String())
}
