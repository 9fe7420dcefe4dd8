package domain

import "time"

// ContentType discriminates the two managed content kinds.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypePage ContentType = "page"
	// ContentTypeMixed is accepted by bulk operations only; each id is
	// resolved to its concrete kind before anything touches the store.
	ContentTypeMixed ContentType = "mixed"
)

// Valid reports whether t names a concrete, storable content kind.
func (t ContentType) Valid() bool {
	return t == ContentTypePost || t == ContentTypePage
}

// ContentStatus lifecycle state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// ContentItem is a post or page record managed by the CMS.
type ContentItem struct {
	ID             string            `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Type           ContentType       `gorm:"column:content_type;type:varchar(10);index" json:"content_type"`
	Title          string            `gorm:"column:title;type:varchar(255)" json:"title"`
	Body           string            `gorm:"column:body;type:mediumtext" json:"content"`
	Excerpt        string            `gorm:"column:excerpt;type:text" json:"excerpt"`
	Slug           string            `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	SEOTitle       string            `gorm:"column:seo_title;type:varchar(255)" json:"seo_title"`
	SEODescription string            `gorm:"column:seo_description;type:text" json:"seo_description"`
	SEOKeywords    string            `gorm:"column:seo_keywords;type:varchar(500)" json:"seo_keywords"`
	FeaturedImage  string            `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	Categories     []string          `gorm:"column:categories;serializer:json;type:json" json:"categories"`
	Tags           []string          `gorm:"column:tags;serializer:json;type:json" json:"tags"`
	CustomFields   map[string]string `gorm:"column:custom_fields;serializer:json;type:json" json:"custom_fields"`
	Status         ContentStatus     `gorm:"column:status;type:varchar(20);index" json:"status"`
	AuthorID       string            `gorm:"column:author_id;type:varchar(36);index" json:"author_id"`
	PublishedAt    *time.Time        `gorm:"column:published_at" json:"published_at,omitempty"`
	ScheduledAt    *time.Time        `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentItem) TableName() string { return "contents" }
