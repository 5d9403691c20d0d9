package repository

import (
	"context"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
)

// ImageRepository is the durable record of generated images.
type ImageRepository interface {
	Create(ctx context.Context, img *entity.GeneratedImage) error
	Search(ctx context.Context, userID, query string, limit int) ([]entity.GeneratedImage, error)
}

// ImageIndex is an optional full-text index over generated image prompts.
type ImageIndex interface {
	Index(ctx context.Context, img *entity.GeneratedImage) error
	Search(ctx context.Context, userID, query string, limit int) ([]entity.GeneratedImage, error)
}
