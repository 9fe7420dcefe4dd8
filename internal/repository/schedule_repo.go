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

// ScheduleRepository data access for deferred content actions.
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) error
	FindByID(ctx context.Context, id string) (*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	// CancelPendingByContent marks every pending schedule for the content
	// as cancelled and returns how many were affected.
	CancelPendingByContent(ctx context.Context, contentID string, kind domain.ContentType) (int64, error)
	// FindDue returns pending schedules whose time has come and whose
	// retry budget is not exhausted, oldest first.
	FindDue(ctx context.Context, now time.Time) ([]*domain.Schedule, error)
	List(ctx context.Context, f domain.ScheduleFilter, limit, offset int) ([]*domain.Schedule, int64, error)
	CountByStatus(ctx context.Context, createdBy string) (map[domain.ScheduleStatus]int64, error)
	CountUpcoming(ctx context.Context, createdBy string, until time.Time) (int64, error)
	// DeleteTerminalBefore removes terminal schedules whose last update
	// predates cutoff and returns how many were deleted.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, s *domain.Schedule) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("%w: create schedule: %v", common.ErrPersistence, err)
	}
	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id string) (*domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("%w: find schedule %s: %v", common.ErrPersistence, id, err)
	}
	return &s, nil
}

func (r *scheduleRepository) Update(ctx context.Context, s *domain.Schedule) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("%w: update schedule %s: %v", common.ErrPersistence, s.ID, err)
	}
	return nil
}

func (r *scheduleRepository) CancelPendingByContent(ctx context.Context, contentID string, kind domain.ContentType) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Schedule{}).
		Where("content_id = ? AND content_type = ? AND status = ?", contentID, kind, domain.ScheduleStatusPending).
		Updates(map[string]any{"status": domain.ScheduleStatusCancelled, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: cancel pending schedules for %s: %v", common.ErrPersistence, contentID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *scheduleRepository) FindDue(ctx context.Context, now time.Time) ([]*domain.Schedule, error) {
	var due []*domain.Schedule
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ? AND retry_count < max_retries", domain.ScheduleStatusPending, now).
		Order("scheduled_at ASC").
		Find(&due).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find due schedules: %v", common.ErrPersistence, err)
	}
	return due, nil
}

func (r *scheduleRepository) List(ctx context.Context, f domain.ScheduleFilter, limit, offset int) ([]*domain.Schedule, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Schedule{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ContentType != "" {
		q = q.Where("content_type = ?", f.ContentType)
	}
	if f.ContentID != "" {
		q = q.Where("content_id = ?", f.ContentID)
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count schedules: %v", common.ErrPersistence, err)
	}

	var schedules []*domain.Schedule
	err := q.Order("scheduled_at ASC").Limit(limit).Offset(offset).Find(&schedules).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list schedules: %v", common.ErrPersistence, err)
	}
	return schedules, total, nil
}

func (r *scheduleRepository) CountByStatus(ctx context.Context, createdBy string) (map[domain.ScheduleStatus]int64, error) {
	type row struct {
		Status domain.ScheduleStatus
		Count  int64
	}
	q := r.db.WithContext(ctx).
		Model(&domain.Schedule{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: count schedules by status: %v", common.ErrPersistence, err)
	}

	counts := make(map[domain.ScheduleStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *scheduleRepository) CountUpcoming(ctx context.Context, createdBy string, until time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Schedule{}).
		Where("status = ? AND scheduled_at <= ?", domain.ScheduleStatusPending, until)
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count upcoming schedules: %v", common.ErrPersistence, err)
	}
	return count, nil
}

func (r *scheduleRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]domain.ScheduleStatus{domain.ScheduleStatusExecuted, domain.ScheduleStatusFailed, domain.ScheduleStatusCancelled},
			cutoff).
		Delete(&domain.Schedule{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: cleanup schedules: %v", common.ErrPersistence, res.Error)
	}
	return res.RowsAffected, nil
}
