package images

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FieldName is the multipart field product uploads arrive under.
const FieldName = "product"

const maxUploadBytes = 8 << 20

var (
	ErrNoFile  = errors.New("image file required")
	ErrBadType = errors.New("unsupported image type")
)

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploads to a local directory and serves them back under a
// public URL prefix. Files are renamed to uuids so client-supplied names
// never touch the filesystem.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveFromRequest extracts the upload from r and returns the public URL it
// will be served under. A request without the file field is ErrNoFile.
func (s *Store) SaveFromRequest(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", ErrNoFile
	}

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		return "", ErrNoFile
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		return "", ErrBadType
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}

	return path.Join(s.baseURL, name), nil
}

// Handler serves stored images under the configured prefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.baseURL+"/", http.FileServer(http.Dir(s.dir)))
}

// BaseURL is the public prefix images are served under.
func (s *Store) BaseURL() string { return s.baseURL }
