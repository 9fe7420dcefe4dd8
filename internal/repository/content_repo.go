package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository data access for content items, keyed by id and kind.
type ContentRepository interface {
	LoadByID(ctx context.Context, id string, kind domain.ContentType) (*domain.ContentItem, error)
	PatchByID(ctx context.Context, id string, kind domain.ContentType, fields map[string]any) error
	DeleteByID(ctx context.Context, id string, kind domain.ContentType) error
	// Resolve looks an item up by id alone and returns it with its
	// concrete kind. Used for "mixed" bulk operations.
	Resolve(ctx context.Context, id string) (*domain.ContentItem, error)
	Create(ctx context.Context, item *domain.ContentItem) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) LoadByID(ctx context.Context, id string, kind domain.ContentType) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND content_type = ?", id, kind).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: load content %s: %v", common.ErrPersistence, id, err)
	}
	return &item, nil
}

func (r *contentRepository) PatchByID(ctx context.Context, id string, kind domain.ContentType, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.ContentItem{}).
		Where("id = ? AND content_type = ?", id, kind).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("%w: patch content %s: %v", common.ErrPersistence, id, res.Error)
	}
	// RowsAffected is not checked: re-applying an already-applied patch
	// touches zero rows and must stay a no-op, not an error.
	return nil
}

func (r *contentRepository) DeleteByID(ctx context.Context, id string, kind domain.ContentType) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND content_type = ?", id, kind).
		Delete(&domain.ContentItem{})
	if res.Error != nil {
		return fmt.Errorf("%w: delete content %s: %v", common.ErrPersistence, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrContentNotFound
	}
	return nil
}

func (r *contentRepository) Resolve(ctx context.Context, id string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: resolve content %s: %v", common.ErrPersistence, id, err)
	}
	return &item, nil
}

func (r *contentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("%w: create content %s: %v", common.ErrPersistence, item.ID, err)
	}
	return nil
}
