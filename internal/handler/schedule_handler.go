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

// ScheduleHandler exposes the scheduling engine over HTTP
type ScheduleHandler struct {
	scheduling service.SchedulingService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduling service.SchedulingService) *ScheduleHandler {
	return &ScheduleHandler{scheduling: scheduling}
}

// Create godoc
// @Summary Schedule a lifecycle action
// @Description Creates a pending schedule for a content item, superseding any prior pending schedule for it
// @Tags schedules
// @Accept json
// @Produce json
// @Param type path string true "Content type (post, page)"
// @Param id path string true "Content ID"
// @Param request body domain.ScheduleOptions true "Action and time"
// @Success 200 {object} common.APIResponse{data=domain.Schedule}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /contents/{type}/{id}/schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	kind, err := contentTypeParam(c)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	var opts domain.ScheduleOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	schedule, err := h.scheduling.ScheduleAction(c.Request.Context(), c.Param("id"), kind, middleware.GetUserID(c), opts)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, schedule, nil)
}

// List godoc
// @Summary List scheduled actions
// @Tags schedules
// @Produce json
// @Param status query string false "Filter by schedule status"
// @Param content_type query string false "Filter by content type"
// @Param content_id query string false "Filter by content ID"
// @Param created_by query string false "Filter by creator"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} common.APIResponse{data=[]domain.Schedule}
// @Security BearerAuth
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter domain.ScheduleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}
	limit, offset := pagination(c)

	list, err := h.scheduling.GetScheduledActions(c.Request.Context(), filter, limit, offset)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, list.Schedules, &common.Meta{
		Limit:   limit,
		Offset:  offset,
		Total:   list.Total,
		HasMore: list.HasMore,
	})
}

// Stats godoc
// @Summary Scheduling statistics
// @Description Counts by status plus schedules due within the next seven days. Admins see all schedules; others see their own.
// @Tags schedules
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.SchedulingStats}
// @Security BearerAuth
// @Router /schedules/stats [get]
func (h *ScheduleHandler) Stats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if middleware.GetUserRole(c) == "admin" {
		userID = c.Query("created_by")
	}

	stats, err := h.scheduling.GetSchedulingStats(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, stats, nil)
}

// Update godoc
// @Summary Update a pending schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body domain.ScheduleUpdate true "Fields to change"
// @Success 200 {object} common.APIResponse{data=domain.Schedule}
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /schedules/{id} [patch]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var updates domain.ScheduleUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		common.ErrorResponse(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	schedule, err := h.scheduling.UpdateSchedule(c.Request.Context(), c.Param("id"), updates, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, schedule, nil)
}

// Cancel godoc
// @Summary Cancel a pending schedule
// @Description Cancelling a pending publish restores the content's pre-schedule status
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} common.APIResponse{data=domain.Schedule}
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	schedule, err := h.scheduling.CancelSchedule(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, schedule, nil)
}

// RunDue godoc
// @Summary Execute due schedules now
// @Description Manual trigger for the due-schedule drain, same path the cron job takes
// @Tags schedules
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.DueRunReport}
// @Security BearerAuth
// @Router /schedules/run-due [post]
func (h *ScheduleHandler) RunDue(c *gin.Context) {
	report, err := h.scheduling.ExecuteDueSchedules(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, report, nil)
}

// Cleanup godoc
// @Summary Remove old terminal schedules
// @Tags schedules
// @Produce json
// @Param days query int false "Retention window in days" default(30)
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /schedules/cleanup [post]
func (h *ScheduleHandler) Cleanup(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	deleted, err := h.scheduling.CleanupOldSchedules(c.Request.Context(), days)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": deleted}, nil)
}

func contentTypeParam(c *gin.Context) (domain.ContentType, error) {
	kind := domain.ContentType(c.Param("type"))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown content type %q", common.ErrValidation, c.Param("type"))
	}
	return kind, nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
