package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/repository"
	"github.com/quillcms/quill-backend/pkg/lock"
	"github.com/rs/zerolog"
)

var (
	schedulesExecutedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lifecycle_schedules_executed_total",
		Help: "Total number of schedules executed successfully",
	})
	schedulesFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lifecycle_schedules_failed_total",
		Help: "Total number of schedule execution attempts that errored",
	})
)

const (
	// upcomingWindow is the look-ahead used by scheduling stats.
	upcomingWindow = 7 * 24 * time.Hour

	contentLockTTL = 10 * time.Second
	dueRunLockTTL  = 5 * time.Minute
	dueRunLockName = "schedule:due-run"
)

// SchedulingService performs deferred state transitions on content items
// with retry and failure bookkeeping.
type SchedulingService interface {
	ScheduleAction(ctx context.Context, contentID string, kind domain.ContentType, userID string, opts domain.ScheduleOptions) (*domain.Schedule, error)
	// ExecuteDueSchedules drains due pending schedules strictly
	// sequentially. At-least-once: a crash mid-batch leaves the rest
	// pending for the next pass, so per-action mutations are repeat-safe.
	ExecuteDueSchedules(ctx context.Context) (*domain.DueRunReport, error)
	CancelSchedule(ctx context.Context, scheduleID, userID string) (*domain.Schedule, error)
	UpdateSchedule(ctx context.Context, scheduleID string, updates domain.ScheduleUpdate, userID string) (*domain.Schedule, error)
	GetScheduledActions(ctx context.Context, f domain.ScheduleFilter, limit, offset int) (*domain.ScheduleList, error)
	GetSchedulingStats(ctx context.Context, userID string) (*domain.SchedulingStats, error)
	CleanupOldSchedules(ctx context.Context, daysToKeep int) (int64, error)
}

type schedulingService struct {
	contents   repository.ContentRepository
	schedules  repository.ScheduleRepository
	versioning VersioningService
	sink       NotificationSink
	locker     lock.Locker
	logger     zerolog.Logger
	maxRetries int
}

// NewSchedulingService creates a new SchedulingService
func NewSchedulingService(
	contents repository.ContentRepository,
	schedules repository.ScheduleRepository,
	versioning VersioningService,
	sink NotificationSink,
	locker lock.Locker,
	logger zerolog.Logger,
	defaultMaxRetries int,
) SchedulingService {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if defaultMaxRetries < 1 {
		defaultMaxRetries = 3
	}
	return &schedulingService{
		contents:   contents,
		schedules:  schedules,
		versioning: versioning,
		sink:       sink,
		locker:     locker,
		logger:     logger,
		maxRetries: defaultMaxRetries,
	}
}

// ScheduleAction creates a pending schedule for the content, cancelling
// any prior pending schedule for the same (content_id, content_type).
func (s *schedulingService) ScheduleAction(ctx context.Context, contentID string, kind domain.ContentType, userID string, opts domain.ScheduleOptions) (*domain.Schedule, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", common.ErrValidation, kind)
	}
	if !opts.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", common.ErrValidation, opts.Action)
	}
	if !opts.ScheduledAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: scheduled_at must be in the future", common.ErrValidation)
	}

	item, err := s.contents.LoadByID(ctx, contentID, kind)
	if err != nil {
		return nil, err
	}

	// Serialize cancel-then-insert per content so two near-simultaneous
	// calls cannot leave two pending schedules behind.
	release, acquired, err := s.locker.Acquire(ctx, contentLockName(contentID, kind), contentLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire schedule lock: %v", common.ErrPersistence, err)
	}
	if !acquired {
		return nil, common.ErrConcurrentUpdate
	}
	defer release()

	cancelled, err := s.schedules.CancelPendingByContent(ctx, contentID, kind)
	if err != nil {
		return nil, err
	}
	if cancelled > 0 {
		s.logger.Info().
			Str("content_id", contentID).
			Int64("cancelled", cancelled).
			Msg("superseded pending schedules cancelled")
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = s.maxRetries
	}

	schedule := &domain.Schedule{
		ID:          uuid.New().String(),
		ContentID:   contentID,
		ContentType: kind,
		Action:      opts.Action,
		ScheduledAt: opts.ScheduledAt,
		Status:      domain.ScheduleStatusPending,
		RetryCount:  0,
		MaxRetries:  maxRetries,
		Metadata: domain.ScheduleMetadata{
			OriginalStatus:    item.Status,
			TargetStatus:      opts.Action.TargetStatus(),
			NotifyUsers:       opts.NotifyUsers,
			EmailNotification: opts.EmailNotification,
			SocialMediaPost:   opts.SocialMediaPost,
		},
		CreatedBy: userID,
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	// A pending publish is surfaced on the content itself so UIs can show
	// it without querying schedules.
	if opts.Action == domain.ActionPublish {
		err := s.contents.PatchByID(ctx, contentID, kind, map[string]any{
			"status":       domain.ContentStatusScheduled,
			"scheduled_at": opts.ScheduledAt,
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("schedule_id", schedule.ID).
		Str("content_id", contentID).
		Str("action", string(opts.Action)).
		Time("scheduled_at", opts.ScheduledAt).
		Str("user_id", userID).
		Msg("action scheduled")

	return schedule, nil
}

// ExecuteDueSchedules processes all due pending schedules one at a time.
// A single item's failure never aborts the batch.
func (s *schedulingService) ExecuteDueSchedules(ctx context.Context) (*domain.DueRunReport, error) {
	report := &domain.DueRunReport{Errors: []string{}}

	// One drain at a time across processes. A concurrent run is skipped,
	// not queued; the next tick picks the remainder up.
	release, acquired, err := s.locker.Acquire(ctx, dueRunLockName, dueRunLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire due-run lock: %v", common.ErrPersistence, err)
	}
	if !acquired {
		s.logger.Info().Msg("due-schedule run skipped, another drain in progress")
		return report, nil
	}
	defer release()

	due, err := s.schedules.FindDue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	for _, schedule := range due {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("run aborted: %v", ctx.Err()))
			break
		}

		if err := s.executeSchedule(ctx, schedule); err != nil {
			schedulesFailedTotal.Inc()
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("schedule %s: %v", schedule.ID, err))

			schedule.RetryCount++
			schedule.FailureReason = err.Error()
			if schedule.RetryCount >= schedule.MaxRetries {
				schedule.Status = domain.ScheduleStatusFailed
			}
			if uerr := s.schedules.Update(ctx, schedule); uerr != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("schedule %s: record failure: %v", schedule.ID, uerr))
			}

			s.logger.Error().
				Err(err).
				Str("schedule_id", schedule.ID).
				Int("retry_count", schedule.RetryCount).
				Int("max_retries", schedule.MaxRetries).
				Str("status", string(schedule.Status)).
				Msg("schedule execution failed")
			continue
		}

		now := time.Now()
		schedule.Status = domain.ScheduleStatusExecuted
		schedule.ExecutedAt = &now
		if err := s.schedules.Update(ctx, schedule); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("schedule %s: record success: %v", schedule.ID, err))
			continue
		}

		schedulesExecutedTotal.Inc()
		report.Executed++
		s.logger.Info().
			Str("schedule_id", schedule.ID).
			Str("content_id", schedule.ContentID).
			Str("action", string(schedule.Action)).
			Msg("schedule executed")
	}

	return report, nil
}

// executeSchedule applies the schedule's action to its content item.
// Safe to repeat: re-applying an already-applied target status changes
// nothing.
func (s *schedulingService) executeSchedule(ctx context.Context, schedule *domain.Schedule) error {
	item, err := s.contents.LoadByID(ctx, schedule.ContentID, schedule.ContentType)
	if err != nil {
		return err
	}

	switch schedule.Action {
	case domain.ActionPublish:
		fields := map[string]any{
			"status":       domain.ContentStatusPublished,
			"scheduled_at": nil,
		}
		if item.PublishedAt == nil {
			fields["published_at"] = time.Now()
		}
		if err := s.contents.PatchByID(ctx, schedule.ContentID, schedule.ContentType, fields); err != nil {
			return err
		}

	case domain.ActionUnpublish:
		fields := map[string]any{
			"status":       domain.ContentStatusDraft,
			"published_at": nil,
		}
		if err := s.contents.PatchByID(ctx, schedule.ContentID, schedule.ContentType, fields); err != nil {
			return err
		}

	case domain.ActionArchive:
		fields := map[string]any{"status": domain.ContentStatusArchived}
		if err := s.contents.PatchByID(ctx, schedule.ContentID, schedule.ContentType, fields); err != nil {
			return err
		}

	case domain.ActionDelete:
		// Terminal: the item is gone, nothing left to snapshot or update.
		// Version history is orphaned on purpose, not deleted.
		return s.contents.DeleteByID(ctx, schedule.ContentID, schedule.ContentType)

	default:
		return fmt.Errorf("%w: unknown schedule action %q", common.ErrValidation, schedule.Action)
	}

	if _, err := s.versioning.CreateVersion(ctx, schedule.ContentID, schedule.ContentType, schedule.CreatedBy,
		domain.ChangeTypeUpdate, fmt.Sprintf("Scheduled %s", schedule.Action)); err != nil {
		return err
	}

	s.notifyUsers(ctx, schedule)
	return nil
}

// notifyUsers tells interested users the action ran. Best-effort only;
// delivery failures are logged and discarded.
func (s *schedulingService) notifyUsers(ctx context.Context, schedule *domain.Schedule) {
	if s.sink == nil {
		return
	}
	for _, userID := range schedule.Metadata.NotifyUsers {
		err := s.sink.Notify(ctx, userID, "content_schedule",
			fmt.Sprintf("Scheduled %s completed", schedule.Action),
			fmt.Sprintf("The scheduled %s of %s %s has been executed.", schedule.Action, schedule.ContentType, schedule.ContentID),
			domain.NotificationPriorityNormal,
			map[string]string{
				"schedule_id":  schedule.ID,
				"content_id":   schedule.ContentID,
				"content_type": string(schedule.ContentType),
				"action":       string(schedule.Action),
			})
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("schedule_id", schedule.ID).
				Str("recipient_id", userID).
				Msg("schedule notification failed")
		}
	}
}

// CancelSchedule cancels a pending schedule. Cancelling a pending publish
// restores the content's original status.
func (s *schedulingService) CancelSchedule(ctx context.Context, scheduleID, userID string) (*domain.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != domain.ScheduleStatusPending {
		return nil, fmt.Errorf("%w: schedule %s is %s", common.ErrInvalidState, scheduleID, schedule.Status)
	}

	schedule.Status = domain.ScheduleStatusCancelled
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	if schedule.Action == domain.ActionPublish {
		err := s.contents.PatchByID(ctx, schedule.ContentID, schedule.ContentType, map[string]any{
			"status":       schedule.Metadata.OriginalStatus,
			"scheduled_at": nil,
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("schedule_id", scheduleID).
		Str("user_id", userID).
		Msg("schedule cancelled")

	return schedule, nil
}

// UpdateSchedule changes the time, action, or notification options of a
// pending schedule.
func (s *schedulingService) UpdateSchedule(ctx context.Context, scheduleID string, updates domain.ScheduleUpdate, userID string) (*domain.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != domain.ScheduleStatusPending {
		return nil, fmt.Errorf("%w: schedule %s is %s", common.ErrInvalidState, scheduleID, schedule.Status)
	}

	if updates.ScheduledAt != nil {
		if !updates.ScheduledAt.After(time.Now()) {
			return nil, fmt.Errorf("%w: scheduled_at must be in the future", common.ErrValidation)
		}
		schedule.ScheduledAt = *updates.ScheduledAt
	}
	if updates.Action != nil {
		if !updates.Action.Valid() {
			return nil, fmt.Errorf("%w: unknown action %q", common.ErrValidation, *updates.Action)
		}
		schedule.Action = *updates.Action
		schedule.Metadata.TargetStatus = updates.Action.TargetStatus()
	}
	if updates.NotifyUsers != nil {
		schedule.Metadata.NotifyUsers = *updates.NotifyUsers
	}
	if updates.EmailNotification != nil {
		schedule.Metadata.EmailNotification = *updates.EmailNotification
	}
	if updates.SocialMediaPost != nil {
		schedule.Metadata.SocialMediaPost = *updates.SocialMediaPost
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("schedule_id", scheduleID).
		Str("user_id", userID).
		Msg("schedule updated")

	return schedule, nil
}

// GetScheduledActions returns paginated schedules matching the filter
func (s *schedulingService) GetScheduledActions(ctx context.Context, f domain.ScheduleFilter, limit, offset int) (*domain.ScheduleList, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	schedules, total, err := s.schedules.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleList{
		Schedules: schedules,
		Total:     total,
		HasMore:   int64(offset+len(schedules)) < total,
	}, nil
}

// GetSchedulingStats returns counts grouped by status plus schedules due
// within the next seven days. userID narrows to one creator when set.
func (s *schedulingService) GetSchedulingStats(ctx context.Context, userID string) (*domain.SchedulingStats, error) {
	counts, err := s.schedules.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.schedules.CountUpcoming(ctx, userID, time.Now().Add(upcomingWindow))
	if err != nil {
		return nil, err
	}

	return &domain.SchedulingStats{
		Pending:   counts[domain.ScheduleStatusPending],
		Executed:  counts[domain.ScheduleStatusExecuted],
		Failed:    counts[domain.ScheduleStatusFailed],
		Cancelled: counts[domain.ScheduleStatusCancelled],
		Upcoming:  upcoming,
	}, nil
}

// CleanupOldSchedules deletes terminal schedules older than the retention
// window and returns how many were removed.
func (s *schedulingService) CleanupOldSchedules(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep < 1 {
		daysToKeep = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)

	deleted, err := s.schedules.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info().
			Int64("deleted", deleted).
			Int("days_kept", daysToKeep).
			Msg("old schedules cleaned up")
	}
	return deleted, nil
}

func contentLockName(contentID string, kind domain.ContentType) string {
	return fmt.Sprintf("schedule:content:%s:%s", kind, contentID)
}
