package v1

import (
	"net/http"

	"go-talent-pipeline/internal/delivery/http/response"
	"go-talent-pipeline/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(r *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	r.GET("/notifications", handler.ListMyNotifications)
}

// ListMyNotifications godoc
// @Summary      List my notifications
// @Description  Get the current user's in-app notifications, newest first
// @Tags         notifications
// @Produce      json
// @Success      200 {object}  response.Response{data=[]domain.Notification}
// @Failure      401 {object}  response.Response
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	notifications, err := h.notificationUC.ListMyNotifications(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved", notifications)
}
