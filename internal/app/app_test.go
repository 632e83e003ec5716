package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"mekong-backend/internal/config"
	"mekong-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Env:           "test",
		Port:          "0",
		SessionSecret: "smoke-secret",
		DatabaseURL:   filepath.Join(t.TempDir(), "portal.db"),
		RedisURL:      "redis://" + mr.Addr(),
	}
	app, err := CreateApp(cfg)
	require.NoError(t, err)
	return app
}

// apiClient drives the full app through app.Test, carrying the session
// cookie between requests the way a browser would.
type apiClient struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (cl *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	cl.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	defer resp.Body.Close()
	for _, ck := range resp.Cookies() {
		if ck.Name == "mekong.sid" && ck.Value != "" {
			cl.cookie = ck
		}
	}
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func registerAs(t *testing.T, app *fiber.App, username, role string) *apiClient {
	t.Helper()
	cl := &apiClient{t: t, app: app}
	status, _ := cl.do("POST", "/api/v1/auth/register", map[string]interface{}{
		"username": username,
		"fullname": "Nguyễn Văn Bảy",
		"email":    username + "@mekongnong.vn",
		"password": "matkhau123",
		"role":     role,
	})
	require.Equal(t, 201, status)
	require.NotNil(t, cl.cookie)
	return cl
}

func dataField(t *testing.T, body map[string]interface{}, key string) string {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	val, _ := data[key].(string)
	require.NotEmpty(t, val, "data has no %s", key)
	return val
}

// Walks the registered project, investment and rating routes end to end
// against a real app (Redis session, SQLite DB) so the wired paths and
// their param names are exercised exactly as deployed.
func TestApp_ProjectInvestmentFlow(t *testing.T) {
	app := newTestApp(t)
	owner := registerAs(t, app, "baynguyen", constants.Farmer)

	status, body := owner.do("GET", "/api/v1/auth/me", nil)
	require.Equal(t, 200, status)

	status, body = owner.do("POST", "/api/v1/projects/create-project", map[string]interface{}{
		"title":            "Trữ nước ngọt mùa khô",
		"description":      "Hồ trữ nước ngọt cho 3 xã ven biển",
		"funding_goal":     int64(500000000),
		"farmers_impacted": 1200,
		"area":             "Bến Tre",
	})
	require.Equal(t, 201, status)
	projectID := dataField(t, body, "project_id")

	status, _ = owner.do("POST", "/api/v1/projects/update-status", map[string]interface{}{
		"project_id": projectID,
		"status":     "active",
	})
	require.Equal(t, 200, status)

	status, body = owner.do("GET", "/api/v1/projects/get-project/"+projectID, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "active", body["data"].(map[string]interface{})["status"])

	status, _ = owner.do("GET", "/api/v1/projects/get-all-projects", nil)
	require.Equal(t, 200, status)
	status, _ = owner.do("GET", "/api/v1/projects/get-my-projects", nil)
	require.Equal(t, 200, status)

	status, _ = owner.do("PUT", "/api/v1/projects/update-project/"+projectID, map[string]interface{}{
		"description": "Hồ trữ nước ngọt cho 4 xã ven biển",
	})
	require.Equal(t, 200, status)

	investor := registerAs(t, app, "utmuoi", constants.Farmer)
	status, body = investor.do("POST", "/api/v1/investments/create-investment", map[string]interface{}{
		"project_id":     projectID,
		"amount":         int64(20000000),
		"investor_name":  "Út Mười",
		"investor_phone": "0912345678",
		"investor_email": "utmuoi@mekongnong.vn",
		"accept_terms":   true,
	})
	require.Equal(t, 201, status)
	investmentID := dataField(t, body, "investment_id")

	status, body = owner.do("POST", "/api/v1/investments/confirm-investment", map[string]interface{}{
		"investment_id": investmentID,
	})
	require.Equal(t, 200, status)
	assert.Equal(t, "confirmed", body["data"].(map[string]interface{})["status"])

	status, body = owner.do("GET", "/api/v1/investments/project-investments/"+projectID, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, body = investor.do("GET", "/api/v1/investments/my-investments", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = investor.do("POST", "/api/v1/ratings/rate-project", map[string]interface{}{
		"project_id": projectID,
		"rating":     5,
		"review":     "Dự án rất thiết thực",
	})
	require.Equal(t, 200, status)

	status, body = investor.do("GET", "/api/v1/ratings/my-rating/"+projectID, nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 5, body["data"].(map[string]interface{})["rating"])

	status, body = investor.do("GET", "/api/v1/ratings/project-ratings/"+projectID, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = investor.do("GET", "/api/v1/leaderboard", nil)
	require.Equal(t, 200, status)
	status, _ = investor.do("GET", "/api/v1/dashboard/stats", nil)
	require.Equal(t, 200, status)
	status, _ = investor.do("GET", "/api/v1/salinity/stations", nil)
	require.Equal(t, 200, status)
	// Param is parsed (unknown station is 404, not a malformed-id 400).
	status, _ = investor.do("GET", "/api/v1/salinity/readings/"+uuid.NewString(), nil)
	require.Equal(t, 404, status)

	// Confirmed pledge moved the funding total.
	status, body = owner.do("GET", "/api/v1/projects/get-project/"+projectID, nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 20000000, body["data"].(map[string]interface{})["current_funding"])
}

func TestApp_NotificationLifecycle(t *testing.T) {
	app := newTestApp(t)
	owner := registerAs(t, app, "baodong", constants.Farmer)

	status, body := owner.do("POST", "/api/v1/projects/create-project", map[string]interface{}{
		"title":        "Nuôi tôm càng xanh xen lúa",
		"funding_goal": int64(80000000),
	})
	require.Equal(t, 201, status)
	projectID := dataField(t, body, "project_id")

	investor := registerAs(t, app, "haichanh", constants.Farmer)
	status, _ = investor.do("POST", "/api/v1/investments/create-investment", map[string]interface{}{
		"project_id":     projectID,
		"amount":         int64(5000000),
		"investor_name":  "Hai Chành",
		"investor_phone": "0987654321",
		"investor_email": "haichanh@mekongnong.vn",
		"accept_terms":   true,
	})
	require.Equal(t, 201, status)

	status, body = owner.do("GET", "/api/v1/notifications/get-notifications", nil)
	require.Equal(t, 200, status)
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	notifID := items[0].(map[string]interface{})["notification_id"].(string)

	status, body = owner.do("GET", "/api/v1/notifications/unread-count", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["unread"])

	status, _ = owner.do("PATCH", "/api/v1/notifications/mark-read/"+notifID, nil)
	require.Equal(t, 200, status)

	status, body = owner.do("GET", "/api/v1/notifications/unread-count", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 0, body["data"].(map[string]interface{})["unread"])

	status, _ = owner.do("PATCH", "/api/v1/notifications/mark-all-read", nil)
	require.Equal(t, 200, status)

	status, _ = owner.do("DELETE", "/api/v1/notifications/delete/"+notifID, nil)
	require.Equal(t, 200, status)

	status, body = owner.do("GET", "/api/v1/notifications/get-notifications", nil)
	require.Equal(t, 200, status)
	assert.Empty(t, body["data"])
}

func TestApp_BusinessPageGate(t *testing.T) {
	app := newTestApp(t)
	biz := registerAs(t, app, "congtyabc", constants.Business)

	status, _ := biz.do("GET", "/api/v1/feed/posts", nil)
	assert.Equal(t, 403, status)

	status, _ = biz.do("GET", "/api/v1/projects/get-all-projects", nil)
	assert.Equal(t, 200, status)

	status, _ = biz.do("GET", "/api/v1/salinity/stations", nil)
	assert.Equal(t, 403, status)
}

func TestApp_RequiresSession(t *testing.T) {
	app := newTestApp(t)
	anon := &apiClient{t: t, app: app}

	status, _ := anon.do("GET", "/api/v1/projects/get-all-projects", nil)
	assert.Equal(t, 401, status)

	status, _ = anon.do("GET", "/health/json", nil)
	assert.Equal(t, 200, status)
}
