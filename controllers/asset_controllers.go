package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type AssetController struct {
	Assets *services.AssetService
}

func NewAssetController(assets *services.AssetService) *AssetController {
	return &AssetController{Assets: assets}
}

// GetImage -> /assets/images/:id dari object store, atau redirect ke URL publik
func (ac *AssetController) GetImage(c *gin.Context) {
	id := c.Param("id")

	if !ac.Assets.HasStore() {
		url, err := ac.Assets.PublicURL(id)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	body, info, err := ac.Assets.Open(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) || errors.Is(err, services.ErrInvalidInput) {
			utils.RespondError(c, statusFor(err), err)
			return
		}
		utils.ErrorLogger.Errorf("Failed to read asset %s: %v", id, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("image unavailable"))
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{"Cache-Control": "public, max-age=3600"}
	if info.ETag != "" {
		headers["ETag"] = `"` + info.ETag + `"`
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, headers)
}
