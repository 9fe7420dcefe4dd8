package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/repository"
	"github.com/quillcms/quill-backend/pkg/textutil"
	"github.com/rs/zerolog"
)

// trackedFields are compared to decide a new version's changed set.
var trackedFields = []string{
	"title", "content", "excerpt", "slug",
	"seo_title", "seo_description", "seo_keywords", "featured_image",
	"categories", "tags", "custom_fields", "status",
}

// comparableFields is the fixed set compareVersions diffs over.
var comparableFields = []string{
	"title", "content", "excerpt", "slug",
	"seo_title", "seo_description", "seo_keywords", "featured_image", "status",
}

// firstVersionChangedFields is the default changed set when no prior
// version exists to compare against.
var firstVersionChangedFields = []string{"title", "content", "excerpt", "slug"}

// VersioningService maintains the append-only snapshot log of content items.
type VersioningService interface {
	CreateVersion(ctx context.Context, contentID string, kind domain.ContentType, userID string,
		changeType domain.ChangeType, description string) (*domain.ContentVersion, error)
	GetVersionHistory(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) (*domain.VersionHistory, error)
	GetVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error)
	CompareVersions(ctx context.Context, contentID string, kind domain.ContentType, fromVersion, toVersion int) ([]domain.FieldDiff, error)
	RevertToVersion(ctx context.Context, contentID string, kind domain.ContentType, targetVersion int, userID string) (*domain.ContentItem, error)
	CleanupOldVersions(ctx context.Context, contentID string, kind domain.ContentType, keepCount int) (int64, error)
	// CleanupAllVersions runs CleanupOldVersions over every content item
	// that has versions. Backs the retention cron job.
	CleanupAllVersions(ctx context.Context, keepCount int) (int64, error)
	GetContentStats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error)
}

type versioningService struct {
	contents repository.ContentRepository
	versions repository.VersionRepository
	logger   zerolog.Logger
}

// NewVersioningService creates a new VersioningService
func NewVersioningService(contents repository.ContentRepository, versions repository.VersionRepository, logger zerolog.Logger) VersioningService {
	return &versioningService{contents: contents, versions: versions, logger: logger}
}

// CreateVersion snapshots the live content item as the next version
func (s *versioningService) CreateVersion(ctx context.Context, contentID string, kind domain.ContentType, userID string,
	changeType domain.ChangeType, description string) (*domain.ContentVersion, error) {
	if !changeType.Valid() {
		return nil, fmt.Errorf("%w: unknown change type %q", common.ErrValidation, changeType)
	}

	item, err := s.contents.LoadByID(ctx, contentID, kind)
	if err != nil {
		return nil, err
	}

	latest, err := s.versions.FindLatest(ctx, contentID, kind)
	if err != nil {
		return nil, err
	}

	next := 1
	previous := 0
	changed := firstVersionChangedFields
	if latest != nil {
		next = latest.Version + 1
		previous = latest.Version
		changed = changedFields(serializeContent(item), serializeVersion(latest))
	}

	wordCount := textutil.WordCount(item.Body)

	version := &domain.ContentVersion{
		ID:             uuid.New().String(),
		ContentID:      contentID,
		ContentType:    kind,
		Version:        next,
		Title:          item.Title,
		Body:           item.Body,
		Excerpt:        item.Excerpt,
		Slug:           item.Slug,
		SEOTitle:       item.SEOTitle,
		SEODescription: item.SEODescription,
		SEOKeywords:    item.SEOKeywords,
		FeaturedImage:  item.FeaturedImage,
		Categories:     item.Categories,
		Tags:           item.Tags,
		CustomFields:   item.CustomFields,
		Status:         item.Status,
		Metadata: domain.VersionMetadata{
			ChangeType:        changeType,
			ChangeDescription: description,
			PreviousVersion:   previous,
			ChangedFields:     changed,
			WordCount:         wordCount,
			ReadingTime:       textutil.ReadingTime(wordCount),
		},
		CreatedBy: userID,
	}

	if err := s.versions.Create(ctx, version); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("content_id", contentID).
		Str("content_type", string(kind)).
		Int("version", next).
		Str("change_type", string(changeType)).
		Msg("version created")

	return version, nil
}

// GetVersionHistory returns versions newest-first with pagination
func (s *versioningService) GetVersionHistory(ctx context.Context, contentID string, kind domain.ContentType, limit, offset int) (*domain.VersionHistory, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	versions, total, err := s.versions.List(ctx, contentID, kind, limit, offset)
	if err != nil {
		return nil, err
	}

	return &domain.VersionHistory{
		Versions: versions,
		Total:    total,
		HasMore:  int64(offset+len(versions)) < total,
	}, nil
}

// GetVersion returns one exact version
func (s *versioningService) GetVersion(ctx context.Context, contentID string, kind domain.ContentType, version int) (*domain.ContentVersion, error) {
	return s.versions.FindByVersion(ctx, contentID, kind, version)
}

// CompareVersions diffs two versions over the fixed comparable field set.
// Only fields whose serialized values differ appear in the result.
func (s *versioningService) CompareVersions(ctx context.Context, contentID string, kind domain.ContentType, fromVersion, toVersion int) ([]domain.FieldDiff, error) {
	from, err := s.versions.FindByVersion(ctx, contentID, kind, fromVersion)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.FindByVersion(ctx, contentID, kind, toVersion)
	if err != nil {
		return nil, err
	}

	oldValues := serializeVersion(from)
	newValues := serializeVersion(to)

	diffs := make([]domain.FieldDiff, 0)
	for _, field := range comparableFields {
		oldVal, newVal := oldValues[field], newValues[field]
		if oldVal == newVal {
			continue
		}
		diffType := "modified"
		if oldVal == "" {
			diffType = "added"
		} else if newVal == "" {
			diffType = "removed"
		}
		diffs = append(diffs, domain.FieldDiff{
			Field:    field,
			OldValue: oldVal,
			NewValue: newVal,
			Type:     diffType,
		})
	}
	return diffs, nil
}

// RevertToVersion overwrites the live item with a past snapshot's fields
// and records the revert as a brand-new, higher-numbered version. The
// version log itself is never rolled back.
func (s *versioningService) RevertToVersion(ctx context.Context, contentID string, kind domain.ContentType, targetVersion int, userID string) (*domain.ContentItem, error) {
	target, err := s.versions.FindByVersion(ctx, contentID, kind, targetVersion)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"title":           target.Title,
		"body":            target.Body,
		"excerpt":         target.Excerpt,
		"slug":            target.Slug,
		"seo_title":       target.SEOTitle,
		"seo_description": target.SEODescription,
		"seo_keywords":    target.SEOKeywords,
		"featured_image":  target.FeaturedImage,
		"categories":      patchJSON(target.Categories),
		"tags":            patchJSON(target.Tags),
		"custom_fields":   patchJSON(target.CustomFields),
		"status":          target.Status,
	}
	if err := s.contents.PatchByID(ctx, contentID, kind, fields); err != nil {
		return nil, err
	}

	if _, err := s.CreateVersion(ctx, contentID, kind, userID, domain.ChangeTypeRevert,
		fmt.Sprintf("Reverted to version %d", targetVersion)); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("content_id", contentID).
		Str("content_type", string(kind)).
		Int("target_version", targetVersion).
		Str("user_id", userID).
		Msg("content reverted")

	return s.contents.LoadByID(ctx, contentID, kind)
}

// CleanupOldVersions keeps only the most recent keepCount versions
func (s *versioningService) CleanupOldVersions(ctx context.Context, contentID string, kind domain.ContentType, keepCount int) (int64, error) {
	if keepCount < 1 {
		keepCount = 10
	}
	deleted, err := s.versions.DeleteAllButNewest(ctx, contentID, kind, keepCount)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info().
			Str("content_id", contentID).
			Int64("deleted", deleted).
			Msg("old versions pruned")
	}
	return deleted, nil
}

// CleanupAllVersions prunes every versioned content item down to keepCount
// versions. A single item's failure is logged and skipped.
func (s *versioningService) CleanupAllVersions(ctx context.Context, keepCount int) (int64, error) {
	contents, err := s.versions.DistinctContents(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, content := range contents {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		n, err := s.CleanupOldVersions(ctx, content.ContentID, content.ContentType, keepCount)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("content_id", content.ContentID).
				Msg("version retention skipped content")
			continue
		}
		deleted += n
	}
	return deleted, nil
}

// GetContentStats aggregates over the content's version log
func (s *versioningService) GetContentStats(ctx context.Context, contentID string, kind domain.ContentType) (*domain.ContentStats, error) {
	return s.versions.Stats(ctx, contentID, kind)
}

// changedFields returns the tracked fields whose serialized values differ.
func changedFields(current, previous map[string]string) []string {
	changed := make([]string, 0)
	for _, field := range trackedFields {
		if current[field] != previous[field] {
			changed = append(changed, field)
		}
	}
	return changed
}

func serializeContent(item *domain.ContentItem) map[string]string {
	return map[string]string{
		"title":           item.Title,
		"content":         item.Body,
		"excerpt":         item.Excerpt,
		"slug":            item.Slug,
		"seo_title":       item.SEOTitle,
		"seo_description": item.SEODescription,
		"seo_keywords":    item.SEOKeywords,
		"featured_image":  item.FeaturedImage,
		"categories":      marshalJSON(item.Categories),
		"tags":            marshalJSON(item.Tags),
		"custom_fields":   marshalJSON(item.CustomFields),
		"status":          string(item.Status),
	}
}

func serializeVersion(v *domain.ContentVersion) map[string]string {
	return map[string]string{
		"title":           v.Title,
		"content":         v.Body,
		"excerpt":         v.Excerpt,
		"slug":            v.Slug,
		"seo_title":       v.SEOTitle,
		"seo_description": v.SEODescription,
		"seo_keywords":    v.SEOKeywords,
		"featured_image":  v.FeaturedImage,
		"categories":      marshalJSON(v.Categories),
		"tags":            marshalJSON(v.Tags),
		"custom_fields":   marshalJSON(v.CustomFields),
		"status":          string(v.Status),
	}
}

// patchJSON serializes collection values for direct column patches.
// Map-based gorm updates bypass field serializers, so JSON columns get
// their text form explicitly.
func patchJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// marshalJSON serializes slice/map values for comparison.
// Empty collections serialize to "" so added/removed detection works.
func marshalJSON(v any) string {
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return ""
		}
	case map[string]string:
		if len(val) == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
