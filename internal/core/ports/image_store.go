package ports

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// ImageStore uploads images to durable storage and returns their public URL.
// Upload failures wrap domain.ErrUpload.
type ImageStore interface {
	Upload(ctx context.Context, folder string, img domain.Image) (string, error)
}
