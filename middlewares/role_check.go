package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

// LeaderOnly mirrors the advisory leader check for routes only the table
// leader may use. The backend still has the final say.
func LeaderOnly(notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			notifier.Error(notify.EventSessionError, errJoinTable.Error(), nil)
			utils.RespondError(c, http.StatusConflict, errJoinTable)
			c.Abort()
			return
		}
		if !session.IsLeader {
			utils.ErrorLogger.Warnf("User %s is not the leader of table %s", session.UserID, session.TableID)
			notifier.Error(notify.EventOrderError, services.ErrNotLeader.Error(), nil)
			utils.RespondError(c, http.StatusForbidden, services.ErrNotLeader)
			c.Abort()
			return
		}
		c.Next()
	}
}
