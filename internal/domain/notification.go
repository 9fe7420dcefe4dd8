package domain

import "time"

// NotificationPriority delivery priority hint for the sink.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is an in-app notification row written by the default
// notification sink. Delivery is best-effort; the lifecycle engine never
// fails an operation because a notification could not be recorded.
type Notification struct {
	ID          string               `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	RecipientID string               `gorm:"column:recipient_id;type:varchar(36);index" json:"recipient_id"`
	Category    string               `gorm:"column:category;type:varchar(50)" json:"category"`
	Title       string               `gorm:"column:title;type:varchar(255)" json:"title"`
	Message     string               `gorm:"column:message;type:text" json:"message"`
	Priority    NotificationPriority `gorm:"column:priority;type:varchar(10)" json:"priority"`
	Data        map[string]string    `gorm:"column:data;serializer:json;type:json" json:"data,omitempty"`
	IsRead      bool                 `gorm:"column:is_read" json:"is_read"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
