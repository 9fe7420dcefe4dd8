package domain

import "time"

// ChangeType classifies why a version snapshot was taken.
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeRevert ChangeType = "revert"
)

// Valid reports whether c is one of the enumerated change types.
func (c ChangeType) Valid() bool {
	return c == ChangeTypeCreate || c == ChangeTypeUpdate || c == ChangeTypeRevert
}

// VersionMetadata change bookkeeping stored with each snapshot.
type VersionMetadata struct {
	ChangeType        ChangeType `json:"change_type"`
	ChangeDescription string     `json:"change_description"`
	PreviousVersion   int        `json:"previous_version"`
	ChangedFields     []string   `json:"changed_fields"`
	WordCount         int        `json:"word_count"`
	ReadingTime       int        `json:"reading_time"`
}

// ContentVersion is an immutable snapshot of a content item.
// Version numbers are strictly increasing per (content_id, content_type),
// starting at 1. Rows are never updated once persisted.
type ContentVersion struct {
	ID             string            `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID      string            `gorm:"column:content_id;type:varchar(36);index:idx_version_content" json:"content_id"`
	ContentType    ContentType       `gorm:"column:content_type;type:varchar(10);index:idx_version_content" json:"content_type"`
	Version        int               `gorm:"column:version" json:"version"`
	Title          string            `gorm:"column:title;type:varchar(255)" json:"title"`
	Body           string            `gorm:"column:body;type:mediumtext" json:"content"`
	Excerpt        string            `gorm:"column:excerpt;type:text" json:"excerpt"`
	Slug           string            `gorm:"column:slug;type:varchar(255)" json:"slug"`
	SEOTitle       string            `gorm:"column:seo_title;type:varchar(255)" json:"seo_title"`
	SEODescription string            `gorm:"column:seo_description;type:text" json:"seo_description"`
	SEOKeywords    string            `gorm:"column:seo_keywords;type:varchar(500)" json:"seo_keywords"`
	FeaturedImage  string            `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	Categories     []string          `gorm:"column:categories;serializer:json;type:json" json:"categories"`
	Tags           []string          `gorm:"column:tags;serializer:json;type:json" json:"tags"`
	CustomFields   map[string]string `gorm:"column:custom_fields;serializer:json;type:json" json:"custom_fields"`
	Status         ContentStatus     `gorm:"column:status;type:varchar(20)" json:"status"`
	Metadata       VersionMetadata   `gorm:"column:metadata;serializer:json;type:json" json:"metadata"`
	CreatedBy      string            `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_versions" }

// VersionHistory paginated newest-first version listing.
type VersionHistory struct {
	Versions []*ContentVersion `json:"versions"`
	Total    int64             `json:"total"`
	HasMore  bool              `json:"has_more"`
}

// VersionedContent identifies one content item that has versions.
type VersionedContent struct {
	ContentID   string      `gorm:"column:content_id" json:"content_id"`
	ContentType ContentType `gorm:"column:content_type" json:"content_type"`
}

// FieldDiff one differing field between two versions.
type FieldDiff struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Type     string `json:"type"` // added, removed, modified
}

// ContentStats aggregates over a content item's version log.
type ContentStats struct {
	TotalVersions      int64      `json:"total_versions"`
	AverageWordCount   float64    `json:"average_word_count"`
	AverageReadingTime float64    `json:"average_reading_time"`
	FirstVersion       *time.Time `json:"first_version,omitempty"`
	LastVersion        *time.Time `json:"last_version,omitempty"`
	Contributors       []string   `json:"contributors"`
}
