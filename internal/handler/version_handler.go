package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/middleware"
	"github.com/quillcms/quill-backend/internal/service"
)

// VersionHandler exposes the versioning engine over HTTP
type VersionHandler struct {
	versioning service.VersioningService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(versioning service.VersioningService) *VersionHandler {
	return &VersionHandler{versioning: versioning}
}

type createVersionRequest struct {
	ChangeType  domain.ChangeType `json:"change_type" binding:"required"`
	Description string            `json:"description"`
}

// Create godoc
// @Summary Snapshot the current content as a new version
// @Tags versions
// @Accept json
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param request body createVersionRequest true "Change type and description"
// @Success 200 {object} common.APIResponse{data=domain.ContentVersion}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/versions [post]
func (h *VersionHandler) Create(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	version, err := h.versioning.CreateVersion(c.Request.Context(), c.Param("id"), kind,
		middleware.GetUserID(c), req.ChangeType, req.Description)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, version, nil)
}

// History godoc
// @Summary List a content item's versions, newest first
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} common.APIResponse{data=[]domain.ContentVersion}
// @Security BearerAuth
// @Router /contents/{type}/{id}/versions [get]
func (h *VersionHandler) History(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	limit, offset := pagination(c)

	history, err := h.versioning.GetVersionHistory(c.Request.Context(), c.Param("id"), kind, limit, offset)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, history.Versions, &common.Meta{
		Limit:   limit,
		Offset:  offset,
		Total:   history.Total,
		HasMore: history.HasMore,
	})
}

// Get godoc
// @Summary Fetch one exact version
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param version path int true "Version number"
// @Success 200 {object} common.APIResponse{data=domain.ContentVersion}
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/versions/{version} [get]
func (h *VersionHandler) Get(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	number, err := versionParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	version, err := h.versioning.GetVersion(c.Request.Context(), c.Param("id"), kind, number)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, version, nil)
}

// Diff godoc
// @Summary Compare two versions field by field
// @Description Returns only the fields whose values differ between the two versions
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param from query int true "Older version number"
// @Param to query int true "Newer version number"
// @Success 200 {object} common.APIResponse{data=[]domain.FieldDiff}
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/diff [get]
func (h *VersionHandler) Diff(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	from, err := strconv.Atoi(c.Query("from"))
	if err != nil || from < 1 {
		common.ErrorResponse(c, fmt.Errorf("%w: from must be a positive version number", common.ErrValidation))
		return
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil || to < 1 {
		common.ErrorResponse(c, fmt.Errorf("%w: to must be a positive version number", common.ErrValidation))
		return
	}

	diffs, err := h.versioning.CompareVersions(c.Request.Context(), c.Param("id"), kind, from, to)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, diffs, nil)
}

// Revert godoc
// @Summary Revert content to a past version
// @Description Overwrites the live item with the target snapshot and records the revert as a new version
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param version path int true "Version number to revert to"
// @Success 200 {object} common.APIResponse{data=domain.ContentItem}
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/versions/{version}/revert [post]
func (h *VersionHandler) Revert(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	number, err := versionParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	item, err := h.versioning.RevertToVersion(c.Request.Context(), c.Param("id"), kind, number, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, item, nil)
}

// Cleanup godoc
// @Summary Prune old versions
// @Description Keeps only the newest versions of the content item
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param keep query int false "How many versions to keep" default(10)
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/versions [delete]
func (h *VersionHandler) Cleanup(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	keep, _ := strconv.Atoi(c.DefaultQuery("keep", "10"))

	deleted, err := h.versioning.CleanupOldVersions(c.Request.Context(), c.Param("id"), kind, keep)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": deleted}, nil)
}

// Stats godoc
// @Summary Aggregate statistics over a content item's version log
// @Tags versions
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Success 200 {object} common.APIResponse{data=domain.ContentStats}
// @Security BearerAuth
// @Router /contents/{type}/{id}/stats [get]
func (h *VersionHandler) Stats(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	stats, err := h.versioning.GetContentStats(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, stats, nil)
}

func versionParam(c *gin.Context) (int, error) {
	number, err := strconv.Atoi(c.Param("version"))
	if err != nil || number < 1 {
		return 0, fmt.Errorf("%w: version must be a positive number", common.ErrValidation)
	}
	return number, nil
}
