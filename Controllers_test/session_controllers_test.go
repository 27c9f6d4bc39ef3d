package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJoinAndLeave(t *testing.T) {
	app := setupApp(t)

	w, env := app.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"joined": false, "can_place_order": false}`, string(env.Data))

	w, env = app.do(t, http.MethodPost, "/api/session", map[string]string{"table_id": "T1", "user_name": "Asha"})
	require.Equal(t, http.StatusCreated, w.Code)

	var view struct {
		Joined  bool `json:"joined"`
		Session struct {
			UserID   string `json:"user_id"`
			IsLeader bool   `json:"is_leader"`
		} `json:"session"`
		CanPlaceOrder bool `json:"can_place_order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Joined)
	assert.Equal(t, "u1", view.Session.UserID)
	assert.True(t, view.Session.IsLeader)
	assert.True(t, view.CanPlaceOrder)

	w, _ = app.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, app.sessions.Current())
}

func TestSessionJoinValidation(t *testing.T) {
	app := setupApp(t)

	w, env := app.do(t, http.MethodPost, "/api/session", map[string]string{"table_id": "T1", "user_name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Status)
	assert.Empty(t, app.fake.Requests())
}

func TestTableMembersAndQRCode(t *testing.T) {
	app := setupApp(t)
	app.do(t, http.MethodPost, "/api/session", map[string]string{"table_id": "T1", "user_name": "Asha"})
	app.do(t, http.MethodPost, "/api/session", map[string]string{"table_id": "T1", "user_name": "Ravi"})

	w, env := app.do(t, http.MethodGet, "/api/tables/T1/members", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var members []struct {
		UserName string `json:"user_name"`
		Role     string `json:"role"`
		IsMe     bool   `json:"is_me"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &members))
	require.Len(t, members, 2)
	assert.Equal(t, "leader", members[0].Role)
	assert.Equal(t, "member", members[1].Role)
	assert.True(t, members[1].IsMe)

	w, _ = app.do(t, http.MethodGet, "/api/tables/T1/qr", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
