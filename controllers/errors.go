package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

var errJoinTable = errors.New("please join a table")

// statusFor maps a service error onto the HTTP status of the presentation API.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNoSession):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidQuantity), errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotLeader):
		return http.StatusForbidden
	case errors.Is(err, services.ErrCheckoutInProgress), errors.Is(err, services.ErrNoActivePayment),
		errors.Is(err, services.ErrSessionChanged):
		return http.StatusConflict
	case errors.Is(err, services.ErrItemNotInCart), errors.Is(err, services.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrItemUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrViewClosed):
		return http.StatusServiceUnavailable
	}

	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		// 4xx dari backend diteruskan apa adanya
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	if services.Classify(err) == services.KindTransport {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondServiceError(c *gin.Context, err error, data interface{}) {
	code := statusFor(err)
	if errors.Is(err, services.ErrNoSession) {
		err = errJoinTable
	} else {
		err = errors.New(services.UserMessage(err))
	}
	if data == nil {
		utils.RespondError(c, code, err)
		return
	}
	utils.RespondErrorData(c, code, err, data)
}
