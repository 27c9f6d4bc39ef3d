package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type SessionController struct {
	Sessions *services.SessionService
	Cart     *services.CartService
	Orders   *services.OrderService
}

func NewSessionController(sessions *services.SessionService, cart *services.CartService, orders *services.OrderService) *SessionController {
	return &SessionController{Sessions: sessions, Cart: cart, Orders: orders}
}

type sessionView struct {
	Joined        bool            `json:"joined"`
	Session       *models.Session `json:"session,omitempty"`
	CanPlaceOrder bool            `json:"can_place_order"`
}

func (sc *SessionController) view() sessionView {
	current := sc.Sessions.Current()
	return sessionView{
		Joined:        current.Joined(),
		Session:       current,
		CanPlaceOrder: sc.Orders.CanPlaceOrder(),
	}
}

// GetSession -> identity saat ini atau anonymous
func (sc *SessionController) GetSession(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Current session", sc.view())
}

// JoinTable -> join meja dan simpan identity
func (sc *SessionController) JoinTable(c *gin.Context) {
	var req models.JoinTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := sc.Sessions.Join(c.Request.Context(), req.TableID, req.UserName); err != nil {
		respondServiceError(c, err, nil)
		return
	}

	// state meja sebelumnya tidak berlaku lagi
	sc.Cart.Reset()
	sc.Orders.Reset()
	if _, err := sc.Cart.Fetch(c.Request.Context()); err != nil {
		utils.ErrorLogger.Warnf("Initial cart fetch failed: %v", err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Joined table", sc.view())
}

// LeaveTable -> lupakan identity lokal
func (sc *SessionController) LeaveTable(c *gin.Context) {
	if err := sc.Sessions.Clear(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	sc.Cart.Reset()
	sc.Orders.Reset()
	utils.RespondJSON(c, http.StatusOK, "Left table", sc.view())
}
