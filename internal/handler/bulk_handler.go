package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/quillcms/quill-backend/internal/common"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/middleware"
	"github.com/quillcms/quill-backend/internal/service"
)

// BulkHandler exposes the bulk operation coordinator over HTTP
type BulkHandler struct {
	bulk service.BulkService
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(bulk service.BulkService) *BulkHandler {
	return &BulkHandler{bulk: bulk}
}

// Actions godoc
// @Summary List bulk actions available for a content type
// @Tags bulk
// @Produce json
// @Param content_type query string false "Content type (post, page, mixed)" default(mixed)
// @Success 200 {object} common.APIResponse{data=[]domain.BulkActionSpec}
// @Security BearerAuth
// @Router /bulk/actions [get]
func (h *BulkHandler) Actions(c *gin.Context) {
	kind := domain.ContentType(c.DefaultQuery("content_type", string(domain.ContentTypeMixed)))
	if !domain.ValidBulkContentType(kind) {
		common.ErrorResponse(c, fmt.Errorf("%w: unknown content type %q", common.ErrValidation, kind))
		return
	}
	common.SuccessResponse(c, h.bulk.GetAvailableActions(kind), nil)
}

// Validate godoc
// @Summary Dry-run validation of a bulk operation
// @Description Runs the same checks Execute does, without touching any content
// @Tags bulk
// @Accept json
// @Produce json
// @Param request body domain.BulkOperation true "Operation to validate"
// @Success 200 {object} common.APIResponse{data=domain.BulkValidation}
// @Security BearerAuth
// @Router /bulk/validate [post]
func (h *BulkHandler) Validate(c *gin.Context) {
	var op domain.BulkOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}
	common.SuccessResponse(c, h.bulk.ValidateOperation(op), nil)
}

// Execute godoc
// @Summary Execute a bulk operation
// @Description Applies one action to up to 100 content items. Individual item failures are reported per item and never abort the batch.
// @Tags bulk
// @Accept json
// @Produce json
// @Param request body domain.BulkOperation true "Operation to execute"
// @Success 200 {object} common.APIResponse{data=domain.BulkResult}
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /bulk [post]
func (h *BulkHandler) Execute(c *gin.Context) {
	var op domain.BulkOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	result, err := h.bulk.ExecuteBulkOperation(c.Request.Context(), op, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}
