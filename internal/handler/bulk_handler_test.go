package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBulkService struct {
	mock.Mock
}

func (m *mockBulkService) GetAvailableActions(kind domain.ContentType) []domain.BulkActionSpec {
	args := m.Called(kind)
	return args.Get(0).([]domain.BulkActionSpec)
}

func (m *mockBulkService) ValidateOperation(op domain.BulkOperation) domain.BulkValidation {
	args := m.Called(op)
	return args.Get(0).(domain.BulkValidation)
}

func (m *mockBulkService) ExecuteBulkOperation(ctx context.Context, op domain.BulkOperation, userID string) (*domain.BulkResult, error) {
	args := m.Called(ctx, op, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

func newBulkRouter(svc *mockBulkService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewBulkHandler(svc)
	router.GET("/bulk/actions", h.Actions)
	router.POST("/bulk/validate", h.Validate)
	router.POST("/bulk", h.Execute)
	return router
}

func TestBulkExecute_ReturnsReport(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	svc.On("ExecuteBulkOperation", mock.Anything, mock.MatchedBy(func(op domain.BulkOperation) bool {
		return op.Action == domain.BulkPublish && len(op.ContentIDs) == 2
	}), "").Return(&domain.BulkResult{
		Total: 2, Success: 1, Failed: 1,
		Results: []domain.BulkItemResult{
			{ID: "c1", Success: true},
			{ID: "c2", Success: false, Error: "content not found"},
		},
		Errors:   []string{},
		Warnings: []string{},
	}, nil)

	body, _ := json.Marshal(domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1", "c2"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.BulkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Success)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Len(t, resp.Data.Results, 2)
}

func TestBulkExecute_ValidationErrorMapsTo400(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	svc.On("ExecuteBulkOperation", mock.Anything, mock.Anything, "").
		Return(nil, common.ErrValidation)

	body, _ := json.Marshal(domain.BulkOperation{
		Action:      domain.BulkPublish,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkActions_DefaultsToMixed(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	svc.On("GetAvailableActions", domain.ContentTypeMixed).Return([]domain.BulkActionSpec{
		{Action: domain.BulkPublish, Label: "Publish"},
		{Action: domain.BulkUpdateTags, Label: "Update tags"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bulk/actions", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.BulkActionSpec `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	svc.AssertExpectations(t)
}

func TestBulkActions_ExplicitContentType(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	svc.On("GetAvailableActions", domain.ContentTypePage).Return([]domain.BulkActionSpec{
		{Action: domain.BulkPublish, Label: "Publish"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bulk/actions?content_type=page", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBulkActions_UnknownContentType(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bulk/actions?content_type=widget", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetAvailableActions", mock.Anything)
}

func TestBulkValidate_PassesThrough(t *testing.T) {
	svc := new(mockBulkService)
	router := newBulkRouter(svc)

	svc.On("ValidateOperation", mock.Anything).Return(domain.BulkValidation{
		IsValid: false,
		Errors:  []string{`missing required parameter "tags"`},
	})

	body, _ := json.Marshal(domain.BulkOperation{
		Action:      domain.BulkUpdateTags,
		ContentType: domain.ContentTypePost,
		ContentIDs:  []string{"c1"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bulk/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.BulkValidation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.IsValid)
	assert.Len(t, resp.Data.Errors, 1)
}
