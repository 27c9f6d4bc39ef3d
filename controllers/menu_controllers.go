package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GetMenu -> katalog (opsional filter category) beserta daftar kategori
func (mc *MenuController) GetMenu(c *gin.Context) {
	category := c.Query("category")

	if !mc.Menu.Loaded() || c.Query("refresh") == "true" {
		if _, err := mc.Menu.Fetch(c.Request.Context(), ""); err != nil {
			if !mc.Menu.Loaded() {
				respondServiceError(c, err, nil)
				return
			}
			respondServiceError(c, err, mc.payload(category))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", mc.payload(category))
}

func (mc *MenuController) payload(category string) gin.H {
	return gin.H{
		"items":      mc.Menu.Items(category),
		"categories": mc.Menu.Categories(),
	}
}
