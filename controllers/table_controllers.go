package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type TableController struct {
	Sessions    *services.SessionService
	JoinURLBase string
}

func NewTableController(sessions *services.SessionService, joinURLBase string) *TableController {
	return &TableController{Sessions: sessions, JoinURLBase: joinURLBase}
}

type memberView struct {
	models.User
	Role string `json:"role"`
	IsMe bool   `json:"is_me"`
}

// GetMembers -> daftar diner di meja beserta label leader/member
func (tc *TableController) GetMembers(c *gin.Context) {
	users, err := tc.Sessions.Members(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	me := ""
	if current := tc.Sessions.Current(); current != nil {
		me = current.UserID
	}

	members := make([]memberView, 0, len(users))
	for _, u := range users {
		role := "member"
		if u.IsLeader {
			role = "leader"
		}
		members = append(members, memberView{User: u, Role: role, IsMe: u.UserID == me})
	}
	utils.RespondJSON(c, http.StatusOK, "Table members", members)
}

// GetQRCode -> PNG berisi link join meja
func (tc *TableController) GetQRCode(c *gin.Context) {
	tableID := c.Param("table_id")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := utils.TableQRCode(tc.JoinURLBase, tableID, size)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to render QR code for table %s: %v", tableID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
