package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/repository"
	"github.com/rs/zerolog"
)

var bulkItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lifecycle_bulk_items_total",
	Help: "Per-item outcomes of bulk operations",
}, []string{"action", "outcome"})

// BulkService validates and executes an action across a batch of content
// ids with per-item failure isolation.
type BulkService interface {
	GetAvailableActions(kind domain.ContentType) []domain.BulkActionSpec
	ValidateOperation(op domain.BulkOperation) domain.BulkValidation
	ExecuteBulkOperation(ctx context.Context, op domain.BulkOperation, userID string) (*domain.BulkResult, error)
}

type bulkService struct {
	contents   repository.ContentRepository
	versioning VersioningService
	scheduling SchedulingService
	logger     zerolog.Logger
}

// NewBulkService creates a new BulkService
func NewBulkService(
	contents repository.ContentRepository,
	versioning VersioningService,
	scheduling SchedulingService,
	logger zerolog.Logger,
) BulkService {
	return &bulkService{
		contents:   contents,
		versioning: versioning,
		scheduling: scheduling,
		logger:     logger,
	}
}

// GetAvailableActions returns the declarative catalog entries usable with
// the given operation content type.
func (s *bulkService) GetAvailableActions(kind domain.ContentType) []domain.BulkActionSpec {
	available := make([]domain.BulkActionSpec, 0, len(domain.BulkActionCatalog))
	for _, spec := range domain.BulkActionCatalog {
		if spec.AllowedFor(kind) {
			available = append(available, spec)
		}
	}
	return available
}

// ValidateOperation checks the whole operation up front. Validation is
// all-or-nothing: an invalid operation executes nothing.
func (s *bulkService) ValidateOperation(op domain.BulkOperation) domain.BulkValidation {
	errs := []string{}

	if len(op.ContentIDs) == 0 {
		errs = append(errs, "content_ids must not be empty")
	}
	if len(op.ContentIDs) > domain.MaxBulkItems {
		errs = append(errs, fmt.Sprintf("content_ids exceeds the maximum of %d items", domain.MaxBulkItems))
	}

	if !domain.ValidBulkContentType(op.ContentType) {
		errs = append(errs, fmt.Sprintf("unknown content type %q", op.ContentType))
		return domain.BulkValidation{IsValid: false, Errors: errs}
	}

	spec, ok := domain.FindBulkAction(op.Action)
	if !ok || !spec.AllowedFor(op.ContentType) {
		errs = append(errs, fmt.Sprintf("action %q is not available for content type %q", op.Action, op.ContentType))
		return domain.BulkValidation{IsValid: false, Errors: errs}
	}

	for _, param := range spec.Parameters {
		if !param.Required {
			continue
		}
		if _, present := op.Parameters[param.Name]; !present {
			errs = append(errs, fmt.Sprintf("missing required parameter %q", param.Name))
			continue
		}
		if err := checkParam(param, op.Parameters[param.Name]); err != nil {
			errs = append(errs, err.Error())
		}
	}

	return domain.BulkValidation{IsValid: len(errs) == 0, Errors: errs}
}

// ExecuteBulkOperation validates then applies the action to every id,
// strictly sequentially. A single item's failure never aborts the batch;
// callers must inspect the returned report for partial failure.
func (s *bulkService) ExecuteBulkOperation(ctx context.Context, op domain.BulkOperation, userID string) (*domain.BulkResult, error) {
	if v := s.ValidateOperation(op); !v.IsValid {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(v.Errors, "; "))
	}

	var result *domain.BulkResult
	switch op.Action {
	case domain.BulkPublish:
		result = s.eachItem(ctx, op, "Bulk published", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{
				"status":       domain.ContentStatusPublished,
				"scheduled_at": nil,
			}
			if item.PublishedAt == nil {
				fields["published_at"] = time.Now()
			}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk published", userID)
		})
	case domain.BulkUnpublish:
		result = s.eachItem(ctx, op, "Bulk unpublished", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{
				"status":       domain.ContentStatusDraft,
				"published_at": nil,
			}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk unpublished", userID)
		})
	case domain.BulkArchive:
		result = s.eachItem(ctx, op, "Bulk archived", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{"status": domain.ContentStatusArchived}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk archived", userID)
		})
	case domain.BulkDelete:
		// No snapshot: nothing is left to snapshot after a delete.
		result = s.eachItem(ctx, op, "Bulk deleted", func(ctx context.Context, item *domain.ContentItem) error {
			return s.contents.DeleteByID(ctx, item.ID, item.Type)
		})
	case domain.BulkUpdateCategories:
		categories, _ := stringListParam(op.Parameters["categories"])
		result = s.eachItem(ctx, op, "Bulk categories updated", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{"categories": patchJSON(categories)}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk categories updated", userID)
		})
	case domain.BulkUpdateTags:
		tags, _ := stringListParam(op.Parameters["tags"])
		result = s.eachItem(ctx, op, "Bulk tags updated", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{"tags": patchJSON(tags)}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk tags updated", userID)
		})
	case domain.BulkUpdateAuthor:
		authorID, _ := stringParam(op.Parameters["author_id"])
		result = s.eachItem(ctx, op, "Bulk author changed", func(ctx context.Context, item *domain.ContentItem) error {
			fields := map[string]any{"author_id": authorID}
			return s.patchAndSnapshot(ctx, item, fields, "Bulk author changed", userID)
		})
	case domain.BulkSchedulePublish:
		scheduledAt, _ := timeParam(op.Parameters["scheduled_at"])
		result = s.eachItem(ctx, op, "Bulk publish scheduled", func(ctx context.Context, item *domain.ContentItem) error {
			_, err := s.scheduling.ScheduleAction(ctx, item.ID, item.Type, userID, domain.ScheduleOptions{
				Action:      domain.ActionPublish,
				ScheduledAt: scheduledAt,
			})
			return err
		})
	case domain.BulkDuplicate:
		result = s.duplicateItems(ctx, op, userID)
	case domain.BulkExport:
		result = s.exportItems(ctx, op)
	default:
		// Unreachable: validation rejects actions outside the catalog.
		return nil, fmt.Errorf("%w: action %q has no handler", common.ErrValidation, op.Action)
	}

	s.logger.Info().
		Str("action", string(op.Action)).
		Str("content_type", string(op.ContentType)).
		Int("total", result.Total).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Str("user_id", userID).
		Msg("bulk operation finished")

	return result, nil
}

// eachItem runs apply once per content id, sequentially, recording a
// per-item outcome and never stopping on failure. Context cancellation
// marks the remaining items failed so the report invariants still hold.
func (s *bulkService) eachItem(ctx context.Context, op domain.BulkOperation, label string,
	apply func(ctx context.Context, item *domain.ContentItem) error) *domain.BulkResult {
	result := &domain.BulkResult{
		Total:    len(op.ContentIDs),
		Results:  make([]domain.BulkItemResult, 0, len(op.ContentIDs)),
		Errors:   []string{},
		Warnings: []string{},
	}

	for i, id := range op.ContentIDs {
		if ctx.Err() != nil {
			for _, remaining := range op.ContentIDs[i:] {
				result.Failed++
				result.Results = append(result.Results, domain.BulkItemResult{
					ID: remaining, Success: false, Error: "operation cancelled",
				})
				bulkItemsTotal.WithLabelValues(string(op.Action), "failed").Inc()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s aborted: %v", label, ctx.Err()))
			break
		}

		item, err := s.resolveItem(ctx, op.ContentType, id)
		if err == nil {
			err = apply(ctx, item)
		}
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, domain.BulkItemResult{ID: id, Success: false, Error: err.Error()})
			bulkItemsTotal.WithLabelValues(string(op.Action), "failed").Inc()
			continue
		}

		result.Success++
		result.Results = append(result.Results, domain.BulkItemResult{ID: id, Success: true})
		bulkItemsTotal.WithLabelValues(string(op.Action), "success").Inc()
	}

	return result
}

// resolveItem loads the item by the operation's content type; "mixed"
// resolves each id to its concrete kind with a single lookup.
func (s *bulkService) resolveItem(ctx context.Context, kind domain.ContentType, id string) (*domain.ContentItem, error) {
	if kind == domain.ContentTypeMixed {
		return s.contents.Resolve(ctx, id)
	}
	return s.contents.LoadByID(ctx, id, kind)
}

// patchAndSnapshot applies a mutation then records an audit version.
func (s *bulkService) patchAndSnapshot(ctx context.Context, item *domain.ContentItem, fields map[string]any, description, userID string) error {
	if err := s.contents.PatchByID(ctx, item.ID, item.Type, fields); err != nil {
		return err
	}
	_, err := s.versioning.CreateVersion(ctx, item.ID, item.Type, userID, domain.ChangeTypeUpdate, description)
	return err
}

// duplicateItems clones each item as a fresh draft.
func (s *bulkService) duplicateItems(ctx context.Context, op domain.BulkOperation, userID string) *domain.BulkResult {
	return s.eachItem(ctx, op, "Bulk duplicated", func(ctx context.Context, item *domain.ContentItem) error {
		clone := *item
		clone.ID = uuid.New().String()
		clone.Slug = item.Slug + "-copy"
		clone.Status = domain.ContentStatusDraft
		clone.AuthorID = userID
		clone.PublishedAt = nil
		clone.ScheduledAt = nil
		clone.CreatedAt = time.Time{}
		clone.UpdatedAt = time.Time{}

		if err := s.contents.Create(ctx, &clone); err != nil {
			return err
		}
		_, err := s.versioning.CreateVersion(ctx, clone.ID, clone.Type, userID,
			domain.ChangeTypeCreate, fmt.Sprintf("Duplicated from %s", item.ID))
		return err
	})
}

// exportItems is read-only: each item's serialized payload rides along in
// its per-item result.
func (s *bulkService) exportItems(ctx context.Context, op domain.BulkOperation) *domain.BulkResult {
	result := &domain.BulkResult{
		Total:    len(op.ContentIDs),
		Results:  make([]domain.BulkItemResult, 0, len(op.ContentIDs)),
		Errors:   []string{},
		Warnings: []string{},
	}

	for i, id := range op.ContentIDs {
		if ctx.Err() != nil {
			for _, remaining := range op.ContentIDs[i:] {
				result.Failed++
				result.Results = append(result.Results, domain.BulkItemResult{
					ID: remaining, Success: false, Error: "operation cancelled",
				})
				bulkItemsTotal.WithLabelValues(string(op.Action), "failed").Inc()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("export aborted: %v", ctx.Err()))
			break
		}

		item, err := s.resolveItem(ctx, op.ContentType, id)
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, domain.BulkItemResult{ID: id, Success: false, Error: err.Error()})
			bulkItemsTotal.WithLabelValues(string(op.Action), "failed").Inc()
			continue
		}

		result.Success++
		result.Results = append(result.Results, domain.BulkItemResult{ID: id, Success: true, Data: item})
		bulkItemsTotal.WithLabelValues(string(op.Action), "success").Inc()
	}

	return result
}

// checkParam validates a required parameter's shape.
func checkParam(spec domain.BulkParamSpec, value any) error {
	switch spec.Type {
	case "string":
		if v, ok := stringParam(value); !ok || v == "" {
			return fmt.Errorf("parameter %q must be a non-empty string", spec.Name)
		}
	case "string_list":
		if _, ok := stringListParam(value); !ok {
			return fmt.Errorf("parameter %q must be a list of strings", spec.Name)
		}
	case "timestamp":
		if _, ok := timeParam(value); !ok {
			return fmt.Errorf("parameter %q must be an RFC3339 timestamp", spec.Name)
		}
	}
	return nil
}

func stringParam(value any) (string, bool) {
	v, ok := value.(string)
	return v, ok
}

// stringListParam accepts []string directly and []any as produced by
// JSON decoding.
func stringListParam(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// timeParam accepts time.Time directly and RFC3339 strings.
func timeParam(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
