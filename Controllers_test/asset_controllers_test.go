package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetImageRedirectsWithoutStore(t *testing.T) {
	app := setupApp(t)

	w, _ := app.do(t, http.MethodGet, "/assets/images/dosa.jpg", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://gobblego.s3.ap-south-1.amazonaws.com/assets/dosa.jpg", w.Header().Get("Location"))
}

func TestPing(t *testing.T) {
	app := setupApp(t)

	w, _ := app.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())
}
