// Package attachment moves uploaded images from the request into blob
// storage. Files are staged on local disk first, handed to storage, and the
// staged copy is always removed whether the upload succeeds or not.
package attachment

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"blog-backend/internal/shared/apperror"
	"blog-backend/pkg/logger"
)

// FieldName is the multipart field carrying the image.
const FieldName = "featuredImage"

// Staged is a file written to the staging directory and not yet uploaded.
type Staged struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64

	once sync.Once
}

// Discard removes the staged file. It is idempotent and safe on nil.
func (s *Staged) Discard() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove staged file", map[string]interface{}{
				"path":  s.Path,
				"error": err.Error(),
			})
		}
	})
}

// Stager writes uploads to a local scratch directory.
type Stager struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewStager creates dir if needed.
func NewStager(dir string, maxSize int64) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Stager{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies the uploaded part to disk. Files over the size ceiling fail
// with PayloadTooLarge, non-image content with ValidationFailed. On any
// error nothing is left behind in the staging directory.
func (s *Stager) Stage(fh *multipart.FileHeader) (*Staged, error) {
	if fh.Size > s.maxSize {
		return nil, apperror.PayloadTooLarge("File size too large")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal("Failed to read upload", err)
	}
	defer src.Close()

	name, err := s.uniqueName(fh.Filename)
	if err != nil {
		return nil, apperror.Internal("Failed to stage upload", err)
	}

	staged := &Staged{Path: filepath.Join(s.dir, name), OriginalName: fh.Filename}

	dst, err := os.OpenFile(staged.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, apperror.Internal("Failed to stage upload", err)
	}

	written, copyErr := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		staged.Discard()
		return nil, apperror.Internal("Failed to stage upload", err)
	}
	if written > s.maxSize {
		staged.Discard()
		return nil, apperror.PayloadTooLarge("File size too large")
	}

	mtype, err := mimetype.DetectFile(staged.Path)
	if err != nil {
		staged.Discard()
		return nil, apperror.Internal("Failed to inspect upload", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		staged.Discard()
		return nil, apperror.Validation("Only image files are allowed!", map[string]string{
			FieldName: "must be an image",
		})
	}

	staged.ContentType = mtype.String()
	staged.Size = written
	return staged, nil
}

// uniqueName returns "<unix-millis>-<9 random digits><ext>".
func (s *Stager) uniqueName(original string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%d-%09d%s", s.now().UnixMilli(), n.Int64(), ext), nil
}
