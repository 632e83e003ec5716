package ratings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRatingsTest(t *testing.T) (*Handlers, *gorm.DB, *models.InvestmentProject) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.InvestmentProject{}, &models.ProjectRating{}))
	project := &models.InvestmentProject{
		Title: "Trạm quan trắc mặn", FundingGoal: 100000000,
		OwnerID: uuid.New(), Status: models.ProjectActive,
	}
	require.NoError(t, db.Create(project).Error)
	return &Handlers{Service: &Service{DB: db}}, db, project
}

func appAs(uid uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uid.String(),
			"role":    constants.Farmer,
		})
		return c.Next()
	})
	return app
}

func rate(t *testing.T, app *fiber.App, projectID uuid.UUID, stars int, review string) int {
	t.Helper()
	payload := map[string]interface{}{"project_id": projectID.String(), "rating": stars}
	if review != "" {
		payload["review"] = review
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/rate-project", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRateProject_RangeEnforced(t *testing.T) {
	h, db, project := setupRatingsTest(t)
	app := appAs(uuid.New())
	app.Post("/rate-project", h.RateProject)

	for _, stars := range []int{0, -1, 6, 100} {
		assert.Equal(t, 400, rate(t, app, project.ProjectID, stars, ""), "stars=%d", stars)
	}
	var count int64
	db.Model(&models.ProjectRating{}).Count(&count)
	assert.Equal(t, int64(0), count)

	for _, stars := range []int{1, 2, 3, 4, 5} {
		assert.Equal(t, 200, rate(t, app, project.ProjectID, stars, ""), "stars=%d", stars)
	}
}

func TestRateProject_UpsertPerUserProject(t *testing.T) {
	h, db, project := setupRatingsTest(t)
	uid := uuid.New()
	app := appAs(uid)
	app.Post("/rate-project", h.RateProject)

	require.Equal(t, 200, rate(t, app, project.ProjectID, 3, "tạm được"))
	require.Equal(t, 200, rate(t, app, project.ProjectID, 5, "rất tốt"))

	var rows []models.ProjectRating
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Rating)
	require.NotNil(t, rows[0].Review)
	assert.Equal(t, "rất tốt", *rows[0].Review)

	// A different user gets their own row.
	other := appAs(uuid.New())
	other.Post("/rate-project", h.RateProject)
	require.Equal(t, 200, rate(t, other, project.ProjectID, 1, ""))
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 2)
}

func TestRateProject_UnknownProject(t *testing.T) {
	h, _, _ := setupRatingsTest(t)
	app := appAs(uuid.New())
	app.Post("/rate-project", h.RateProject)

	assert.Equal(t, 404, rate(t, app, uuid.New(), 4, ""))
}

func TestGetMyRating(t *testing.T) {
	h, _, project := setupRatingsTest(t)
	uid := uuid.New()
	app := appAs(uid)
	app.Post("/rate-project", h.RateProject)
	app.Get("/my-rating/:project_id", h.GetMyRating)

	req := httptest.NewRequest("GET", "/my-rating/"+project.ProjectID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	require.Equal(t, 200, rate(t, app, project.ProjectID, 4, ""))

	req = httptest.NewRequest("GET", "/my-rating/"+project.ProjectID.String(), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["rating"])
}

type fakeRatingNotifier struct {
	owners []uuid.UUID
}

func (f *fakeRatingNotifier) RatingReceived(_ context.Context, ownerID uuid.UUID, _ *models.ProjectRating, _ string) {
	f.owners = append(f.owners, ownerID)
}

func TestRateProject_NotifiesOwnerOnce(t *testing.T) {
	h, _, project := setupRatingsTest(t)
	notifier := &fakeRatingNotifier{}
	h.Service.Notifier = notifier

	rater := appAs(uuid.New())
	rater.Post("/rate-project", h.RateProject)
	require.Equal(t, 200, rate(t, rater, project.ProjectID, 5, "Dự án rất thiết thực"))
	require.Len(t, notifier.owners, 1)
	assert.Equal(t, project.OwnerID, notifier.owners[0])

	// The owner rating their own project does not self-notify.
	owner := appAs(project.OwnerID)
	owner.Post("/rate-project", h.RateProject)
	require.Equal(t, 200, rate(t, owner, project.ProjectID, 3, ""))
	assert.Len(t, notifier.owners, 1)
}
