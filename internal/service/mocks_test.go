package service

import (
	"context"
	"time"

	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) LoadByID(ctx context.Context, id string, kind domain.ContentType) (*domain.ContentItem, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *mockContentRepo) PatchByID(ctx context.Context, id string, kind domain.ContentType, fields map[string]any) error {
	args := m.Called(ctx, id, kind, fields)
	return args.Error(0)
}

func (m *mockContentRepo) DeleteByID(ctx context.Context, id string, kind domain.ContentType) error {
	args := m.Called(ctx, id, kind)
	return args.Error(0)
}

func (m *mockContentRepo) Resolve(ctx context.Context, id string) (*domain.ContentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *mockContentRepo) Create(ctx context.Context, item *domain.ContentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*domain.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *mockScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockScheduleRepo) CancelPendingByContent(ctx context.Context, contentID string, kind domain.ContentType) (int64, error) {
	args := m.Called(ctx, contentID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScheduleRepo) FindDue(ctx context.Context, now time.Time) ([]*domain.Schedule, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Schedule), args.Error(1)
}

func (m *mockScheduleRepo) List(ctx context.Context, f domain.ScheduleFilter, limit, offset int) ([]*domain.Schedule, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Schedule), args.Get(1).(int64), args.Error(2)
}

func (m *mockScheduleRepo) CountByStatus(ctx context.Context, createdBy string) (map[domain.ScheduleStatus]int64, error) {
	args := m.Called(ctx, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ScheduleStatus]int64), args.Error(1)
}

func (m *mockScheduleRepo) CountUpcoming(ctx context.Context, createdBy string, until time.Time) (int64, error) {
	args := m.Called(ctx, createdBy, until)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScheduleRepo) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) Create(ctx context.Context, v *domain.ContentVersion) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVersionRepo) FindLatest(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentVersion, error) {
	args := m.Called(ctx, contentID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) FindByVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error) {
	args := m.Called(ctx, contentID, kind, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) List(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) ([]*domain.ContentVersion, int64, error) {
	args := m.Called(ctx, contentID, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ContentVersion), args.Get(1).(int64), args.Error(2)
}

func (m *mockVersionRepo) DeleteAllButNewest(ctx context.Context, contentID string, kind domain.ContentType, keep int) (int64, error) {
	args := m.Called(ctx, contentID, kind, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVersionRepo) DistinctContents(ctx context.Context) ([]domain.VersionedContent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VersionedContent), args.Error(1)
}

func (m *mockVersionRepo) Stats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error) {
	args := m.Called(ctx, contentID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentStats), args.Error(1)
}

type mockVersioning struct {
	mock.Mock
}

func (m *mockVersioning) CreateVersion(ctx context.Context, contentID string, kind domain.ContentType, userID string,
	changeType domain.ChangeType, description string) (*domain.ContentVersion, error) {
	args := m.Called(ctx, contentID, kind, userID, changeType, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersioning) GetVersionHistory(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) (*domain.VersionHistory, error) {
	args := m.Called(ctx, contentID, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionHistory), args.Error(1)
}

func (m *mockVersioning) GetVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error) {
	args := m.Called(ctx, contentID, kind, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersioning) CompareVersions(ctx context.Context, contentID string, kind domain.ContentType, fromVersion, toVersion int) ([]domain.FieldDiff, error) {
	args := m.Called(ctx, contentID, kind, fromVersion, toVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FieldDiff), args.Error(1)
}

func (m *mockVersioning) RevertToVersion(ctx context.Context, contentID string, kind domain.ContentType, targetVersion int, userID string) (*domain.ContentItem, error) {
	args := m.Called(ctx, contentID, kind, targetVersion, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *mockVersioning) CleanupOldVersions(ctx context.Context, contentID string, kind domain.ContentType, keepCount int) (int64, error) {
	args := m.Called(ctx, contentID, kind, keepCount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVersioning) CleanupAllVersions(ctx context.Context, keepCount int) (int64, error) {
	args := m.Called(ctx, keepCount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVersioning) GetContentStats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error) {
	args := m.Called(ctx, contentID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentStats), args.Error(1)
}

type mockScheduling struct {
	mock.Mock
}

func (m *mockScheduling) ScheduleAction(ctx context.Context, contentID string, kind domain.ContentType, userID string, opts domain.ScheduleOptions) (*domain.Schedule, error) {
	args := m.Called(ctx, contentID, kind, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *mockScheduling) ExecuteDueSchedules(ctx context.Context) (*domain.DueRunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DueRunReport), args.Error(1)
}

func (m *mockScheduling) CancelSchedule(ctx context.Context, scheduleID, userID string) (*domain.Schedule, error) {
	args := m.Called(ctx, scheduleID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *mockScheduling) UpdateSchedule(ctx context.Context, scheduleID string, updates domain.ScheduleUpdate, userID string) (*domain.Schedule, error) {
	args := m.Called(ctx, scheduleID, updates, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *mockScheduling) GetScheduledActions(ctx context.Context, f domain.ScheduleFilter, limit, offset int) (*domain.ScheduleList, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleList), args.Error(1)
}

func (m *mockScheduling) GetSchedulingStats(ctx context.Context, userID string) (*domain.SchedulingStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchedulingStats), args.Error(1)
}

func (m *mockScheduling) CleanupOldSchedules(ctx context.Context, daysToKeep int) (int64, error) {
	args := m.Called(ctx, daysToKeep)
	return args.Get(0).(int64), args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Notify(ctx context.Context, recipientID, category, title, message string,
	priority domain.NotificationPriority, data map[string]string) error {
	args := m.Called(ctx, recipientID, category, title, message, priority, data)
	return args.Error(0)
}
