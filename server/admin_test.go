package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Routes(r, s)
	return r
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAdminRoomsHidesPasswords(t *testing.T) {
	s, _ := newTestServer(t)
	createRoom(t, s, connect(s), "Vault", "hunter2", "Bob")
	createRoom(t, s, connect(s), "Alpha", "", "Alice")

	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/rooms", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	var body struct {
		Rooms []RoomState `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 2)
	assert.Equal(t, "Alpha", body.Rooms[0].Name)
	assert.True(t, body.Rooms[1].HasPassword)
}

func TestAdminConfig(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{"invalid json", `{invalid}`, http.StatusBadRequest},
		{"negative grace", `{"graceMs":-1}`, http.StatusBadRequest},
		{"grace overflows duration", `{"graceMs":4611686018427387904}`, http.StatusBadRequest},
		{"delete overflows duration", `{"roomDeleteMs":9223372036855}`, http.StatusBadRequest},
		{"largest grace", `{"graceMs":9223372036854}`, http.StatusOK},
		{"update", `{"hostOnlyStart":true,"graceMs":2000,"roomDeleteMs":1000}`, http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/config", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			newTestRouter(s).ServeHTTP(w, req)
			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}

	s, clk := newTestServer(t)
	r := newTestRouter(s)
	req := httptest.NewRequest(http.MethodPost, "/admin/config", bytes.NewBufferString(`{"graceMs":2000}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/config", nil))
	assert.JSONEq(t, `{"hostOnlyStart":false,"graceMs":2000,"roomDeleteMs":30000}`, w.Body.String())

	bob := connect(s)
	roomID := createRoom(t, s, bob, "Alpha", "", "Bob")
	s.Disconnect(bob.connID)
	clk.Advance(2 * time.Second)
	assert.Nil(t, s.roomForTest(roomID), "new grace period applies")
}

func TestMetricsEndpoint(t *testing.T) {
	g := startedGame(t)
	g.s.Tick()

	w := httptest.NewRecorder()
	newTestRouter(g.s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Rooms       int            `json:"rooms"`
		Connections int            `json:"connections"`
		Metrics     map[string]any `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Rooms)
	assert.Equal(t, 2, body.Connections)
	assert.EqualValues(t, 1, body.Metrics["tick_count"])
	assert.EqualValues(t, 1, body.Metrics["rooms_created"])
}
