package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"gorm.io/gorm"
)

// VersionRepository data access for the append-only version log.
// Rows are only ever inserted or bulk-deleted by retention cleanup;
// there is no update path.
type VersionRepository interface {
	Create(ctx context.Context, v *domain.ContentVersion) error
	// FindLatest returns the highest-numbered version, or (nil, nil) when
	// the content has no versions yet.
	FindLatest(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentVersion, error)
	FindByVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error)
	List(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) ([]*domain.ContentVersion, int64, error)
	// DeleteAllButNewest removes every version except the keep most
	// recent ones and returns how many were deleted.
	DeleteAllButNewest(ctx context.Context, contentID string, kind domain.ContentType, keep int) (int64, error)
	// DistinctContents lists every (content_id, content_type) pair that
	// has versions. Used by the retention cleanup.
	DistinctContents(ctx context.Context) ([]domain.VersionedContent, error)
	Stats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(ctx context.Context, v *domain.ContentVersion) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("%w: create version %d of %s: %v", common.ErrPersistence, v.Version, v.ContentID, err)
	}
	return nil
}

func (r *versionRepository) FindLatest(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentVersion, error) {
	var v domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Order("version DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find latest version of %s: %v", common.ErrPersistence, contentID, err)
	}
	return &v, nil
}

func (r *versionRepository) FindByVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error) {
	var v domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ? AND version = ?", contentID, kind, version).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, fmt.Errorf("%w: find version %d of %s: %v", common.ErrPersistence, version, contentID, err)
	}
	return &v, nil
}

func (r *versionRepository) List(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) ([]*domain.ContentVersion, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.ContentVersion{}).
		Where("content_id = ? AND content_type = ?", contentID, kind)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count versions of %s: %v", common.ErrPersistence, contentID, err)
	}

	var versions []*domain.ContentVersion
	err := q.Order("version DESC").Limit(limit).Offset(offset).Find(&versions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list versions of %s: %v", common.ErrPersistence, contentID, err)
	}
	return versions, total, nil
}

func (r *versionRepository) DeleteAllButNewest(ctx context.Context, contentID string, kind domain.ContentType, keep int) (int64, error) {
	// Find the lowest version number that survives, then delete below it.
	var cutoff domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Order("version DESC").
		Offset(keep - 1).
		First(&cutoff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Fewer versions than keep: nothing to delete.
			return 0, nil
		}
		return 0, fmt.Errorf("%w: find version cutoff for %s: %v", common.ErrPersistence, contentID, err)
	}

	res := r.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ? AND version < ?", contentID, kind, cutoff.Version).
		Delete(&domain.ContentVersion{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: cleanup versions of %s: %v", common.ErrPersistence, contentID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *versionRepository) DistinctContents(ctx context.Context) ([]domain.VersionedContent, error) {
	var contents []domain.VersionedContent
	err := r.db.WithContext(ctx).
		Model(&domain.ContentVersion{}).
		Distinct("content_id", "content_type").
		Find(&contents).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list versioned contents: %v", common.ErrPersistence, err)
	}
	return contents, nil
}

func (r *versionRepository) Stats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error) {
	type aggRow struct {
		Total      int64
		AvgWords   float64
		AvgReading float64
		First      *time.Time
		Last       *time.Time
	}

	var agg aggRow
	err := r.db.WithContext(ctx).
		Model(&domain.ContentVersion{}).
		Select("COUNT(*) as total, "+
			"COALESCE(AVG(JSON_EXTRACT(metadata, '$.word_count')), 0) as avg_words, "+
			"COALESCE(AVG(JSON_EXTRACT(metadata, '$.reading_time')), 0) as avg_reading, "+
			"MIN(created_at) as first, MAX(created_at) as last").
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("%w: version stats for %s: %v", common.ErrPersistence, contentID, err)
	}

	var contributors []string
	err = r.db.WithContext(ctx).
		Model(&domain.ContentVersion{}).
		Distinct("created_by").
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Order("created_by ASC").
		Pluck("created_by", &contributors).Error
	if err != nil {
		return nil, fmt.Errorf("%w: version contributors for %s: %v", common.ErrPersistence, contentID, err)
	}

	return &domain.ContentStats{
		TotalVersions:      agg.Total,
		AverageWordCount:   agg.AvgWords,
		AverageReadingTime: agg.AvgReading,
		FirstVersion:       agg.First,
		LastVersion:        agg.Last,
		Contributors:       contributors,
	}, nil
}
