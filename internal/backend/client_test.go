package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orvio-console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop())
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin@orvio.io", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"user_id":"u1","email":"admin@orvio.io","role":1}}`))
	})

	result, err := c.Login(context.Background(), "admin@orvio.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, domain.UserRoleSystemAdmin, result.User.Role)
}

func TestLoginErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), "admin@orvio.io", "wrong")
	require.Error(t, err)
	// 服务端 message 透传给 UI
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLoginErrorFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Login(context.Background(), "admin@orvio.io", "pw")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
}

func TestListDevicesSendsAuthAndPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/devices", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data":[{"device_id":"FR-1","name":"Lobby","status":0,"door_status":false,"default_temperature":4.0}],
			"pagination":{"page":2,"limit":50,"total":51,"totalPages":2}
		}`))
	})

	sess := &Session{Token: "tok-1", Role: domain.UserRoleAdmin}
	page, err := c.ListDevices(context.Background(), sess, PageQuery{Page: 2, Limit: 50})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "FR-1", page.Data[0].DeviceID)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestListDeviceAlertsStatusFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/devices/FR-1/alerts", r.URL.Path)
		require.Equal(t, "0", r.URL.Query().Get("status_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"pagination":{}}`))
	})

	open := domain.AlertStatusOpen
	_, err := c.ListDeviceAlerts(context.Background(), &Session{Token: "t"}, "FR-1", &open, PageQuery{})
	require.NoError(t, err)
}

func TestUpdateAlert(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/alerts/AL-9", r.URL.Path)

		var req UpdateAlertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, domain.AlertStatusResolved, req.StatusID)
		require.Equal(t, "sensor replaced", req.ResolutionNote)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alert_id":"AL-9","device_id":"FR-1","status_id":1,"resolution_note":"sensor replaced"}`))
	})

	alert, err := c.UpdateAlert(context.Background(), &Session{Token: "t"}, "AL-9", UpdateAlertRequest{
		StatusID:       domain.AlertStatusResolved,
		ResolutionNote: "sensor replaced",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, alert.StatusID)
}

func TestLegacyStatusNamesAccepted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data":[{"device_id":"FR-2","name":"Cafeteria","status":"OFFLINE","door_status":true,"default_temperature":5.5}],
			"pagination":{}
		}`))
	})

	page, err := c.ListDevices(context.Background(), &Session{Token: "t"}, PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, domain.DeviceStatusOffline, page.Data[0].Status)
}

func TestDeleteAdmin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/admins/u7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteAdmin(context.Background(), &Session{Token: "t"}, "u7"))
}
