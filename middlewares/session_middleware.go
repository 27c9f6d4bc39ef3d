package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

const SessionKey = "session"

var errJoinTable = errors.New("please join a table")

// RequireSession blocks cart, order and checkout routes until the diner joined a table.
func RequireSession(sessions *services.SessionService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Require()
		if err != nil {
			utils.ErrorLogger.Warnf("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
			notifier.Error(notify.EventSessionError, errJoinTable.Error(), nil)
			utils.RespondError(c, http.StatusConflict, errJoinTable)
			c.Abort()
			return
		}
		c.Set(SessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}
