package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type CartController struct {
	Cart     *services.CartService
	Currency string
}

func NewCartController(cart *services.CartService, currency string) *CartController {
	return &CartController{Cart: cart, Currency: currency}
}

type cartResponse struct {
	services.CartView
	TotalFormatted string `json:"total_formatted"`
}

func (cc *CartController) payload() cartResponse {
	view := cc.Cart.View()
	return cartResponse{
		CartView:       view,
		TotalFormatted: utils.FormatCurrency(view.Total, cc.Currency),
	}
}

// GetCart -> view cart; fetch pertama dilakukan di sini kalau belum pernah
func (cc *CartController) GetCart(c *gin.Context) {
	if cc.Cart.View().State == services.CartStateLoading {
		if _, err := cc.Cart.Fetch(c.Request.Context()); err != nil {
			respondServiceError(c, err, cc.payload())
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cc.payload())
}

func (cc *CartController) RefreshCart(c *gin.Context) {
	if _, err := cc.Cart.Fetch(c.Request.Context()); err != nil {
		respondServiceError(c, err, cc.payload())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart refreshed", cc.payload())
}

// AddItem -> tambah satu porsi, atau set quantity kalau field quantity dikirim
func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		ItemID   string `json:"item_id" binding:"required"`
		Notes    string `json:"notes"`
		Quantity *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var err error
	if req.Quantity != nil {
		err = cc.Cart.SetItemQuantity(c.Request.Context(), req.ItemID, *req.Quantity)
	} else {
		err = cc.Cart.AddItem(c.Request.Context(), req.ItemID, req.Notes)
	}
	if err != nil {
		respondServiceError(c, err, cc.payload())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cc.payload())
}

// UpdateItem -> set quantity (dan notes kalau dikirim) satu line item; 0 berarti hapus
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req struct {
		Quantity *int    `json:"quantity" binding:"required"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Cart.UpdateLine(c.Request.Context(), c.Param("cart_item_id"), *req.Quantity, req.Notes); err != nil {
		respondServiceError(c, err, cc.payload())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cc.payload())
}

// GetBadge -> jumlah item untuk badge, tanpa network call
func (cc *CartController) GetBadge(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Cart badge", gin.H{"count": cc.Cart.ItemCount()})
}
