package v1

import (
	"net/http"
	"strconv"

	"go-talent-pipeline/internal/delivery/http/response"
	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application lifecycle routes. The bulk
// endpoint takes an extra middleware so the router can rate-limit it harder
// than single transitions.
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase, bulkLimiter gin.HandlerFunc) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		applications.POST("", handler.CreateApplication)
		applications.GET("/:id", handler.GetApplication)
		applications.GET("/:id/history", handler.GetHistory)
		applications.PUT("/:id", handler.UpdateStatus)
		applications.POST("/bulk-update", bulkLimiter, handler.BulkUpdateStatus)
	}

	r.GET("/statuses", handler.ListStatuses)
}

// CreateApplicationRequest is the payload for registering an application
type CreateApplicationRequest struct {
	JobID       int64  `json:"job_id" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

// UpdateStatusRequest is the payload for a status transition
type UpdateStatusRequest struct {
	StatusID int64  `json:"status_id" binding:"required"`
	Note     string `json:"note"`
}

// BulkUpdateRequest is the payload for a bulk transition
type BulkUpdateRequest struct {
	ApplicationIDs []int64 `json:"application_ids" binding:"required"`
	StatusID       int64   `json:"status_id" binding:"required"`
	Note           string  `json:"note"`
}

// CreateApplication godoc
// @Summary      Create an application
// @Description  Register a candidate's application; sets the initial "Applied" status and writes the creation history entry
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      CreateApplicationRequest  true  "Application data"
// @Success      201   {object}  response.Response{data=domain.JobApplication}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.CreateApplication(c, req.JobID, req.CandidateID, actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application created", app)
}

// GetApplication godoc
// @Summary      Get an application
// @Description  Get one application with its current status label
// @Tags         applications
// @Produce      json
// @Param        id  path      int  true  "Application ID"
// @Success      200 {object}  response.Response{data=domain.JobApplication}
// @Failure      404 {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	app, err := h.applicationUC.GetApplication(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// GetHistory godoc
// @Summary      Get status history
// @Description  Get the append-only status ledger of an application, oldest first
// @Tags         applications
// @Produce      json
// @Param        id  path      int  true  "Application ID"
// @Success      200 {object}  response.Response{data=[]domain.StatusHistoryEntry}
// @Failure      404 {object}  response.Response
// @Router       /applications/{id}/history [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetHistory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	entries, err := h.applicationUC.GetHistory(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "History retrieved", entries)
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Move an application to a new status. Any status may move to any other; updating to the current status is a no-op.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "Target status"
// @Success      200   {object}  response.Response{data=domain.JobApplication}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c, id, req.StatusID, req.Note, actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}

// BulkUpdateStatus godoc
// @Summary      Bulk update application statuses
// @Description  Apply one transition to a batch of applications. Unknown ids are skipped, not failed.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      BulkUpdateRequest  true  "Bulk transition"
// @Success      200   {object}  response.Response{data=domain.BulkUpdateResult}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/bulk-update [post]
// @Security     BearerAuth
func (h *ApplicationHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.applicationUC.BulkUpdateStatus(c, req.ApplicationIDs, req.StatusID, req.Note, actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Bulk update applied", result)
}

// ListStatuses godoc
// @Summary      List application statuses
// @Description  Get the admin-managed set of pipeline statuses
// @Tags         applications
// @Produce      json
// @Success      200 {object}  response.Response{data=[]domain.ApplicationStatus}
// @Router       /statuses [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.applicationUC.ListStatuses(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Statuses retrieved", statuses)
}

// actorFrom returns the resolved acting user id, nil when the request was
// not made by an authenticated user
func actorFrom(c *gin.Context) *string {
	userID := c.GetString(string(domain.KeyUserID))
	if userID == "" {
		return nil
	}
	return &userID
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
