package postgres

import (
	"context"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/domain/repository"
)

type ImageRepository struct {
	db DBTX
}

func NewImageRepository(db DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, img *entity.GeneratedImage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO generated_images (id, user_id, prompt, storage_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, img.ID, img.UserID, img.Prompt, img.StorageURL).Scan(&img.CreatedAt)
	if err != nil {
		return storeErr("insert generated image", err)
	}
	return nil
}

// Search matches prompts case-insensitively; an empty query lists everything.
func (r *ImageRepository) Search(ctx context.Context, userID, query string, limit int) ([]entity.GeneratedImage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, prompt, storage_url, created_at
		FROM generated_images
		WHERE user_id = $1 AND ($2 = '' OR prompt ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, query, limit)
	if err != nil {
		return nil, storeErr("search generated images", err)
	}
	defer rows.Close()

	out := make([]entity.GeneratedImage, 0)
	for rows.Next() {
		var img entity.GeneratedImage
		if err := rows.Scan(&img.ID, &img.UserID, &img.Prompt, &img.StorageURL, &img.CreatedAt); err != nil {
			return nil, storeErr("scan generated image", err)
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate generated images", err)
	}
	return out, nil
}

var _ repository.ImageRepository = (*ImageRepository)(nil)
