package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBulkFixture() (*mockContentRepo, *mockVersioning, *mockScheduling, BulkService) {
	contents := new(mockContentRepo)
	versioning := new(mockVersioning)
	scheduling := new(mockScheduling)
	svc := NewBulkService(contents, versioning, scheduling, zerolog.Nop())
	return contents, versioning, scheduling, svc
}

func TestGetAvailableActions_PageExcludesTaxonomyActions(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	actions := svc.GetAvailableActions(domain.ContentTypePage)

	names := make([]domain.BulkAction, 0, len(actions))
	for _, spec := range actions {
		names = append(names, spec.Action)
	}
	assert.NotContains(t, names, domain.BulkUpdateCategories)
	assert.NotContains(t, names, domain.BulkUpdateTags)
	assert.Contains(t, names, domain.BulkPublish)
	assert.Contains(t, names, domain.BulkDelete)
}

func TestValidateOperation_EmptyIDs(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	v := svc.ValidateOperation(domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
	})

	assert.False(t, v.IsValid)
	assert.Contains(t, v.Errors, "content_ids must not be empty")
}

func TestValidateOperation_TooManyIDs(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	ids := make([]string, domain.MaxBulkItems+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%d", i)
	}

	v := svc.ValidateOperation(domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  ids,
	})

	assert.False(t, v.IsValid)
}

func TestValidateOperation_ActionNotAvailableForType(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	v := svc.ValidateOperation(domain.BulkOperation{
		Action:      domain.BulkUpdateCategories,
		ContentType: domain.ContentTypePage,
		ContentIDs:  []string{"c1"},
		Parameters:  map[string]any{"categories": []string{"news"}},
	})

	assert.False(t, v.IsValid)
}

func TestValidateOperation_MissingRequiredParameter(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	v := svc.ValidateOperation(domain.BulkOperation{
		Action:      domain.BulkUpdateTags,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
	})

	assert.False(t, v.IsValid)
	assert.Contains(t, v.Errors, `missing required parameter "tags"`)
}

func TestValidateOperation_Valid(t *testing.T) {
	_, _, _, svc := newBulkFixture()

	v := svc.ValidateOperation(domain.BulkOperation{
		Action:      domain.BulkSchedulePublish,
		ContentType: domain.ContentTypeMixed,
		ContentIDs:  []string{"c1", "c2"},
		Parameters:  map[string]any{"scheduled_at": time.Now().Add(time.Hour).Format(time.RFC3339)},
	})

	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
}

func TestExecuteBulkOperation_InvalidOperationExecutesNothing(t *testing.T) {
	contents, _, _, svc := newBulkFixture()

	_, err := svc.ExecuteBulkOperation(context.Background(), domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
	}, "u1")

	assert.ErrorIs(t, err, common.ErrValidation)
	contents.AssertNotCalled(t, "LoadByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteBulkOperation_PartialFailure(t *testing.T) {
	contents, versioning, _, svc := newBulkFixture()
	ctx := context.Background()

	for _, id := range []string{"c1", "c3"} {
		contents.On("LoadByID", ctx, id, domain.ContentTypePost).
			Return(&domain.ContentItem{ID: id, Type: domain.ContentTypePost, Status: domain.ContentStatusDraft}, nil)
		contents.On("PatchByID", ctx, id, domain.ContentTypePost, mock.MatchedBy(func(fields map[string]any) bool {
			return fields["status"] == domain.ContentStatusPublished
		})).Return(nil)
		versioning.On("CreateVersion", ctx, id, domain.ContentTypePost, "u1", domain.ChangeTypeUpdate, "Bulk published").
			Return(&domain.ContentVersion{}, nil)
	}
	contents.On("LoadByID", ctx, "c2", domain.ContentTypePost).Return(nil, common.ErrContentNotFound)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1", "c2", "c3"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Success)
	assert.False(t, result.Results[1].Success)
	assert.Equal(t, "c2", result.Results[1].ID)
	assert.NotEmpty(t, result.Results[1].Error)
	assert.True(t, result.Results[2].Success)
	contents.AssertExpectations(t)
}

func TestExecuteBulkOperation_MixedResolvesEachID(t *testing.T) {
	contents, versioning, _, svc := newBulkFixture()
	ctx := context.Background()

	contents.On("Resolve", ctx, "c1").
		Return(&domain.ContentItem{ID: "c1", Type: domain.ContentTypePost}, nil)
	contents.On("Resolve", ctx, "c2").
		Return(&domain.ContentItem{ID: "c2", Type: domain.ContentTypePage}, nil)
	contents.On("PatchByID", ctx, "c1", domain.ContentTypePost, mock.Anything).Return(nil)
	contents.On("PatchByID", ctx, "c2", domain.ContentTypePage, mock.Anything).Return(nil)
	versioning.On("CreateVersion", ctx, mock.Anything, mock.Anything, "u1", domain.ChangeTypeUpdate, "Bulk archived").
		Return(&domain.ContentVersion{}, nil)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkArchive,
		ContentType: domain.ContentTypeMixed,
		ContentIDs:  []string{"c1", "c2"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	contents.AssertNotCalled(t, "LoadByID", mock.Anything, mock.Anything, mock.Anything)
	contents.AssertExpectations(t)
}

func TestExecuteBulkOperation_DeleteSkipsSnapshot(t *testing.T) {
	contents, versioning, _, svc := newBulkFixture()
	ctx := context.Background()

	contents.On("LoadByID", ctx, "c1", domain.ContentTypePost).
		Return(&domain.ContentItem{ID: "c1", Type: domain.ContentTypePost}, nil)
	contents.On("DeleteByID", ctx, "c1", domain.ContentTypePost).Return(nil)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkDelete,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	versioning.AssertNotCalled(t, "CreateVersion",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteBulkOperation_SchedulePublishDelegates(t *testing.T) {
	contents, _, scheduling, svc := newBulkFixture()
	ctx := context.Background()
	at := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	contents.On("LoadByID", ctx, "c1", domain.ContentTypePost).
		Return(&domain.ContentItem{ID: "c1", Type: domain.ContentTypePost}, nil)
	scheduling.On("ScheduleAction", ctx, "c1", domain.ContentTypePost, "u1", mock.MatchedBy(func(opts domain.ScheduleOptions) bool {
		return opts.Action == domain.ActionPublish && opts.ScheduledAt.Equal(at)
	})).Return(&domain.Schedule{ID: "s1"}, nil)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkSchedulePublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
		Parameters:  map[string]any{"scheduled_at": at.Format(time.RFC3339)},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	scheduling.AssertExpectations(t)
}

func TestExecuteBulkOperation_DuplicateClonesAsDraft(t *testing.T) {
	contents, versioning, _, svc := newBulkFixture()
	ctx := context.Background()
	published := time.Now()

	contents.On("LoadByID", ctx, "c1", domain.ContentTypePost).Return(&domain.ContentItem{
		ID: "c1", Type: domain.ContentTypePost, Slug: "hello",
		Status: domain.ContentStatusPublished, AuthorID: "author-1",
		PublishedAt: &published,
	}, nil)
	contents.On("Create", ctx, mock.MatchedBy(func(clone *domain.ContentItem) bool {
		return clone.ID != "c1" &&
			clone.Slug == "hello-copy" &&
			clone.Status == domain.ContentStatusDraft &&
			clone.AuthorID == "u1" &&
			clone.PublishedAt == nil
	})).Return(nil)
	versioning.On("CreateVersion", ctx, mock.Anything, domain.ContentTypePost, "u1", domain.ChangeTypeCreate, "Duplicated from c1").
		Return(&domain.ContentVersion{}, nil)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkDuplicate,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	contents.AssertExpectations(t)
	versioning.AssertExpectations(t)
}

func TestExecuteBulkOperation_ExportReturnsPayload(t *testing.T) {
	contents, _, _, svc := newBulkFixture()
	ctx := context.Background()

	item := &domain.ContentItem{ID: "c1", Type: domain.ContentTypePost, Title: "Hello"}
	contents.On("LoadByID", ctx, "c1", domain.ContentTypePost).Return(item, nil)
	contents.On("LoadByID", ctx, "c2", domain.ContentTypePost).Return(nil, common.ErrContentNotFound)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkExport,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1", "c2"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, item, result.Results[0].Data)
	assert.Nil(t, result.Results[1].Data)
}

func TestExecuteBulkOperation_CancelledContextPreservesInvariants(t *testing.T) {
	contents, _, _, svc := newBulkFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1", "c2", "c3"},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 3, result.Failed)
	assert.Len(t, result.Results, 3)
	contents.AssertNotCalled(t, "LoadByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteBulkOperation_UpdateCategoriesPatchesJSON(t *testing.T) {
	contents, versioning, _, svc := newBulkFixture()
	ctx := context.Background()

	contents.On("LoadByID", ctx, "c1", domain.ContentTypePost).
		Return(&domain.ContentItem{ID: "c1", Type: domain.ContentTypePost}, nil)
	contents.On("PatchByID", ctx, "c1", domain.ContentTypePost, mock.MatchedBy(func(fields map[string]any) bool {
		return fields["categories"] == `["news","tech"]`
	})).Return(nil)
	versioning.On("CreateVersion", ctx, "c1", domain.ContentTypePost, "u1", domain.ChangeTypeUpdate, "Bulk categories updated").
		Return(&domain.ContentVersion{}, nil)

	result, err := svc.ExecuteBulkOperation(ctx, domain.BulkOperation{
		Action:      domain.BulkUpdateCategories,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
		Parameters:  map[string]any{"categories": []any{"news", "tech"}},
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	contents.AssertExpectations(t)
}
