package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

type NotificationController struct {
	Hub *notify.Hub
}

func NewNotificationController(hub *notify.Hub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// GetNotifications -> notifikasi terbaru; ?after=<id> untuk polling incremental
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	if after := c.Query("after"); after != "" {
		id, err := strconv.ParseUint(after, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Notifications", nc.Hub.Since(id))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	utils.RespondJSON(c, http.StatusOK, "Notifications", nc.Hub.Recent(limit))
}
