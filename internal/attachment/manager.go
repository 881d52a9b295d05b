package attachment

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/metrics"
	"blog-backend/pkg/logger"
)

// Manager uploads staged files and releases blobs that are no longer
// referenced.
type Manager struct {
	storage  storage.Storage
	recorder metrics.Recorder
	newID    func() string
}

func NewManager(store storage.Storage, recorder metrics.Recorder) *Manager {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Manager{storage: store, recorder: recorder, newID: uuid.NewString}
}

// Upload streams staged into blob storage and returns the new handle. The
// staged file is removed on every path, including failures.
func (m *Manager) Upload(ctx context.Context, staged *Staged) (string, error) {
	defer staged.Discard()

	f, err := os.Open(staged.Path)
	if err != nil {
		m.recorder.RecordUpload(false)
		return "", apperror.Internal("Failed to upload image", err)
	}
	defer f.Close()

	handle := m.newID()
	if err := m.storage.Put(ctx, handle, f, staged.Size, staged.ContentType); err != nil {
		m.recorder.RecordUpload(false)
		return "", apperror.Internal("Failed to upload image", fmt.Errorf("put %s: %w", handle, err))
	}

	m.recorder.RecordUpload(true)
	logger.Debug("attachment uploaded", map[string]interface{}{
		"handle":       handle,
		"size":         staged.Size,
		"content_type": staged.ContentType,
	})
	return handle, nil
}

// Release deletes handle from blob storage. Failures are logged and
// counted but never returned: a leaked blob must not fail a mutation that
// already succeeded.
func (m *Manager) Release(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := m.storage.Delete(ctx, handle); err != nil {
		m.recorder.RecordCleanupFailure("blob")
		logger.Warn("failed to delete blob", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
	}
}
