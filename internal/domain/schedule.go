package domain

import "time"

// ScheduleAction is the closed set of deferred actions a schedule can carry.
type ScheduleAction string

const (
	ActionPublish   ScheduleAction = "publish"
	ActionUnpublish ScheduleAction = "unpublish"
	ActionArchive   ScheduleAction = "archive"
	ActionDelete    ScheduleAction = "delete"
)

// Valid reports whether a is one of the enumerated schedule actions.
func (a ScheduleAction) Valid() bool {
	switch a {
	case ActionPublish, ActionUnpublish, ActionArchive, ActionDelete:
		return true
	}
	return false
}

// TargetStatus returns the content status the action drives toward.
// Delete has no target status; it removes the item outright.
func (a ScheduleAction) TargetStatus() ContentStatus {
	switch a {
	case ActionPublish:
		return ContentStatusPublished
	case ActionUnpublish:
		return ContentStatusDraft
	case ActionArchive:
		return ContentStatusArchived
	}
	return ""
}

// ScheduleStatus lifecycle state of a schedule.
// pending is the only non-terminal state.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusExecuted  ScheduleStatus = "executed"
	ScheduleStatusFailed    ScheduleStatus = "failed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Terminal reports whether the schedule can no longer change state.
func (s ScheduleStatus) Terminal() bool {
	return s == ScheduleStatusExecuted || s == ScheduleStatusFailed || s == ScheduleStatusCancelled
}

// ScheduleMetadata bookkeeping recorded alongside a schedule.
type ScheduleMetadata struct {
	OriginalStatus    ContentStatus `json:"original_status"`
	TargetStatus      ContentStatus `json:"target_status"`
	NotifyUsers       []string      `json:"notify_users"`
	EmailNotification bool          `json:"email_notification"`
	SocialMediaPost   bool          `json:"social_media_post"`
}

// Schedule is a deferred action request against a single content item.
// At most one pending schedule exists per (content_id, content_type);
// creating a new one cancels prior pending schedules for the same content.
type Schedule struct {
	ID            string           `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID     string           `gorm:"column:content_id;type:varchar(36);index:idx_schedule_content" json:"content_id"`
	ContentType   ContentType      `gorm:"column:content_type;type:varchar(10);index:idx_schedule_content" json:"content_type"`
	Action        ScheduleAction   `gorm:"column:action;type:varchar(20)" json:"action"`
	ScheduledAt   time.Time        `gorm:"column:scheduled_at;index" json:"scheduled_at"`
	Status        ScheduleStatus   `gorm:"column:status;type:varchar(20);index" json:"status"`
	ExecutedAt    *time.Time       `gorm:"column:executed_at" json:"executed_at,omitempty"`
	FailureReason string           `gorm:"column:failure_reason;type:text" json:"failure_reason,omitempty"`
	RetryCount    int              `gorm:"column:retry_count" json:"retry_count"`
	MaxRetries    int              `gorm:"column:max_retries" json:"max_retries"`
	Metadata      ScheduleMetadata `gorm:"column:metadata;serializer:json;type:json" json:"metadata"`
	CreatedBy     string           `gorm:"column:created_by;type:varchar(36);index" json:"created_by"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Schedule) TableName() string { return "content_schedules" }

// ScheduleOptions caller-supplied parameters for scheduling an action.
type ScheduleOptions struct {
	Action            ScheduleAction `json:"action" binding:"required"`
	ScheduledAt       time.Time      `json:"scheduled_at" binding:"required"`
	MaxRetries        int            `json:"max_retries"`
	NotifyUsers       []string       `json:"notify_users"`
	EmailNotification bool           `json:"email_notification"`
	SocialMediaPost   bool           `json:"social_media_post"`
}

// ScheduleUpdate fields changeable while a schedule is still pending.
// Nil pointers leave the current value untouched.
type ScheduleUpdate struct {
	ScheduledAt       *time.Time      `json:"scheduled_at"`
	Action            *ScheduleAction `json:"action"`
	NotifyUsers       *[]string       `json:"notify_users"`
	EmailNotification *bool           `json:"email_notification"`
	SocialMediaPost   *bool           `json:"social_media_post"`
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	Status      ScheduleStatus `form:"status"`
	ContentType ContentType    `form:"content_type"`
	ContentID   string         `form:"content_id"`
	CreatedBy   string         `form:"created_by"`
}

// ScheduleList paginated schedule listing.
type ScheduleList struct {
	Schedules []*Schedule `json:"schedules"`
	Total     int64       `json:"total"`
	HasMore   bool        `json:"has_more"`
}

// SchedulingStats counts grouped by status plus the upcoming window.
type SchedulingStats struct {
	Pending   int64 `json:"pending"`
	Executed  int64 `json:"executed"`
	Failed    int64 `json:"failed"`
	Cancelled int64 `json:"cancelled"`
	Upcoming  int64 `json:"upcoming"`
}

// DueRunReport outcome of a single executeDueSchedules pass.
type DueRunReport struct {
	Executed int      `json:"executed"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}
