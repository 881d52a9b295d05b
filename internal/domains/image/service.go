package image

import "context"

// Service resolves attachment handles to blob store URLs. Every method
// returns NotFound for handles with no stored object.
type Service interface {
	ViewURL(ctx context.Context, fileID string) (string, error)
	DownloadURL(ctx context.Context, fileID string) (string, error)
	URLs(ctx context.Context, fileID string) (*URLs, error)
	Info(ctx context.Context, fileID string) (*Info, error)
}
