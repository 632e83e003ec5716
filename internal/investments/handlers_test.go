package investments

import (
	"bytes"
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

func setupInvestmentsTest(t *testing.T) (*Handlers, *gorm.DB, *models.InvestmentProject) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.InvestmentProject{}, &models.ProjectInvestment{}))
	project := &models.InvestmentProject{
		Title: "Hồ trữ nước ngọt", FundingGoal: 500000000,
		OwnerID: uuid.New(), Status: models.ProjectActive,
	}
	require.NoError(t, db.Create(project).Error)
	return &Handlers{Service: &Service{DB: db}}, db, project
}

func appAs(uid uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uid.String(),
			"role":    role,
		})
		return c.Next()
	})
	return app
}

func validSubmission(projectID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"project_id":     projectID.String(),
		"amount":         10000000,
		"investor_name":  "Tran Van B",
		"investor_phone": "0912345678",
		"investor_email": "b@example.com",
		"accept_terms":   true,
	}
}

func TestCreateInvestment_ValidationBlocks(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	app := appAs(uuid.New(), constants.Farmer)
	app.Post("/create-investment", h.CreateInvestment)

	cases := []struct {
		name    string
		mutate  func(m map[string]interface{})
		message string
	}{
		{"zero amount", func(m map[string]interface{}) { m["amount"] = 0 }, ErrAmountInvalid.Error()},
		{"negative amount", func(m map[string]interface{}) { m["amount"] = -500 }, ErrAmountInvalid.Error()},
		{"missing name", func(m map[string]interface{}) { m["investor_name"] = "" }, ErrNameRequired.Error()},
		{"missing phone", func(m map[string]interface{}) { m["investor_phone"] = "" }, ErrPhoneRequired.Error()},
		{"missing email", func(m map[string]interface{}) { m["investor_email"] = "" }, ErrEmailRequired.Error()},
		{"bad email", func(m map[string]interface{}) { m["investor_email"] = "not-an-email" }, ErrEmailRequired.Error()},
		{"terms unchecked", func(m map[string]interface{}) { m["accept_terms"] = false }, ErrTermsNotAccepted.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validSubmission(project.ProjectID)
			tc.mutate(payload)
			body, _ := json.Marshal(payload)
			req := httptest.NewRequest("POST", "/create-investment", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)

			var result map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
			errObj := result["error"].(map[string]interface{})
			assert.Equal(t, tc.message, errObj["message"])

			// No pledge reaches the DB on a blocked submission.
			var count int64
			db.Model(&models.ProjectInvestment{}).Count(&count)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestCreateInvestment_Success_Pending(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	investor := uuid.New()
	app := appAs(investor, constants.Farmer)
	app.Post("/create-investment", h.CreateInvestment)

	body, _ := json.Marshal(validSubmission(project.ProjectID))
	req := httptest.NewRequest("POST", "/create-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var inv models.ProjectInvestment
	require.NoError(t, db.First(&inv).Error)
	assert.Equal(t, models.InvestmentPending, inv.Status)
	assert.Equal(t, investor, inv.InvestorID)

	// Funding does not move on submission.
	var p models.InvestmentProject
	require.NoError(t, db.First(&p, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, int64(0), p.CurrentFunding)
}

func TestCreateInvestment_CancelledProjectRejected(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	require.NoError(t, db.Model(project).Update("status", models.ProjectCancelled).Error)

	app := appAs(uuid.New(), constants.Farmer)
	app.Post("/create-investment", h.CreateInvestment)

	body, _ := json.Marshal(validSubmission(project.ProjectID))
	req := httptest.NewRequest("POST", "/create-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestConfirmInvestment_AddsFundingOnce(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	inv := &models.ProjectInvestment{
		ProjectID: project.ProjectID, InvestorID: uuid.New(),
		InvestorName: "B", InvestorPhone: "0912345678", InvestorEmail: "b@example.com",
		Amount: 25000000, Status: models.InvestmentPending,
	}
	require.NoError(t, db.Create(inv).Error)

	app := appAs(project.OwnerID, constants.Farmer)
	app.Post("/confirm-investment", h.ConfirmInvestment)

	body, _ := json.Marshal(map[string]string{"investment_id": inv.InvestmentID.String()})
	req := httptest.NewRequest("POST", "/confirm-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var p models.InvestmentProject
	require.NoError(t, db.First(&p, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, int64(25000000), p.CurrentFunding)

	// Second confirm of the same pledge must not double-count.
	req = httptest.NewRequest("POST", "/confirm-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	require.NoError(t, db.First(&p, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, int64(25000000), p.CurrentFunding)
}

func TestConfirmInvestment_NonOwnerForbidden(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	inv := &models.ProjectInvestment{
		ProjectID: project.ProjectID, InvestorID: uuid.New(),
		InvestorName: "B", InvestorPhone: "0912345678", InvestorEmail: "b@example.com",
		Amount: 1000, Status: models.InvestmentPending,
	}
	require.NoError(t, db.Create(inv).Error)

	app := appAs(uuid.New(), constants.Farmer)
	app.Post("/confirm-investment", h.ConfirmInvestment)

	body, _ := json.Marshal(map[string]string{"investment_id": inv.InvestmentID.String()})
	req := httptest.NewRequest("POST", "/confirm-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestCancelInvestment_FundingUnchanged(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	require.NoError(t, db.Model(project).Update("current_funding", 40000000).Error)
	investor := uuid.New()
	inv := &models.ProjectInvestment{
		ProjectID: project.ProjectID, InvestorID: investor,
		InvestorName: "B", InvestorPhone: "0912345678", InvestorEmail: "b@example.com",
		Amount: 5000000, Status: models.InvestmentPending,
	}
	require.NoError(t, db.Create(inv).Error)

	app := appAs(investor, constants.Farmer)
	app.Post("/cancel-investment", h.CancelInvestment)

	body, _ := json.Marshal(map[string]string{"investment_id": inv.InvestmentID.String()})
	req := httptest.NewRequest("POST", "/cancel-investment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var p models.InvestmentProject
	require.NoError(t, db.First(&p, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, int64(40000000), p.CurrentFunding)
}

func TestListProjectInvestments_OwnerOnly(t *testing.T) {
	h, db, project := setupInvestmentsTest(t)
	require.NoError(t, db.Create(&models.ProjectInvestment{
		ProjectID: project.ProjectID, InvestorID: uuid.New(),
		InvestorName: "B", InvestorPhone: "0912345678", InvestorEmail: "b@example.com",
		Amount: 1000, Status: models.InvestmentPending,
	}).Error)

	stranger := appAs(uuid.New(), constants.Farmer)
	stranger.Get("/project-investments/:project_id", h.ListProjectInvestments)
	req := httptest.NewRequest("GET", "/project-investments/"+project.ProjectID.String(), nil)
	resp, err := stranger.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	owner := appAs(project.OwnerID, constants.Farmer)
	owner.Get("/project-investments/:project_id", h.ListProjectInvestments)
	req = httptest.NewRequest("GET", "/project-investments/"+project.ProjectID.String(), nil)
	resp, err = owner.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result["data"].([]interface{}), 1)
}
