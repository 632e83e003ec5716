package feed

import (
	"bytes"
	"encoding/json"
	"io"
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

func setupFeedTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FeedPost{}, &models.Product{}))
	return NewHandlers(&Service{DB: db}), db
}

func feedAppAs(h *Handlers, uid uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uid.String(),
			"role":    constants.Farmer,
		})
		return c.Next()
	})
	app.Post("/posts", h.CreatePost)
	app.Get("/posts", h.ListPosts)
	app.Post("/posts/:id/like", h.LikePost)
	app.Delete("/posts/:id", h.DeletePost)
	app.Post("/products", h.CreateProduct)
	app.Get("/products", h.ListProducts)
	app.Get("/products/:id", h.GetProduct)
	app.Delete("/products/:id", h.DeleteProduct)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var parsed map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed
}

func TestCreatePost_RequiresContent(t *testing.T) {
	h, db := setupFeedTest(t)
	app := feedAppAs(h, uuid.New())

	code, _ := doJSON(t, app, "POST", "/posts", map[string]interface{}{"content": "   "})
	assert.Equal(t, fiber.StatusBadRequest, code)

	var count int64
	db.Model(&models.FeedPost{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestFeed_NewestFirst(t *testing.T) {
	h, _ := setupFeedTest(t)
	uid := uuid.New()
	app := feedAppAs(h, uid)

	for _, content := range []string{"Nước mặn lên 5g/l sáng nay", "Ruộng lúa đã chuyển sang tôm", "Tìm giống lúa chịu mặn"} {
		code, _ := doJSON(t, app, "POST", "/posts", map[string]interface{}{"content": content})
		require.Equal(t, fiber.StatusCreated, code)
	}

	code, parsed := doJSON(t, app, "GET", "/posts", nil)
	require.Equal(t, fiber.StatusOK, code)
	data := parsed["data"].([]interface{})
	require.Len(t, data, 3)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Tìm giống lúa chịu mặn", first["content"])
}

func TestLikePost_Increments(t *testing.T) {
	h, db := setupFeedTest(t)
	uid := uuid.New()
	app := feedAppAs(h, uid)

	post := &models.FeedPost{AuthorID: uid, Content: "Mùa khô năm nay đến sớm"}
	require.NoError(t, db.Create(post).Error)

	for i := 0; i < 3; i++ {
		code, _ := doJSON(t, app, "POST", "/posts/"+post.PostID.String()+"/like", nil)
		require.Equal(t, fiber.StatusOK, code)
	}

	var stored models.FeedPost
	require.NoError(t, db.First(&stored, "post_id = ?", post.PostID).Error)
	assert.Equal(t, 3, stored.Likes)
}

func TestDeletePost_AuthorOnly(t *testing.T) {
	h, db := setupFeedTest(t)
	author := uuid.New()

	post := &models.FeedPost{AuthorID: author, Content: "Bán máy đo độ mặn cũ"}
	require.NoError(t, db.Create(post).Error)

	stranger := feedAppAs(h, uuid.New())
	code, _ := doJSON(t, stranger, "DELETE", "/posts/"+post.PostID.String(), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	owner := feedAppAs(h, author)
	code, _ = doJSON(t, owner, "DELETE", "/posts/"+post.PostID.String(), nil)
	assert.Equal(t, fiber.StatusOK, code)

	var count int64
	db.Model(&models.FeedPost{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateProduct_Validation(t *testing.T) {
	h, db := setupFeedTest(t)
	app := feedAppAs(h, uuid.New())

	code, _ := doJSON(t, app, "POST", "/products", map[string]interface{}{"name": "", "price": 50000})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/products", map[string]interface{}{"name": "Tôm sú", "price": 0})
	assert.Equal(t, fiber.StatusBadRequest, code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProducts_SellerFilter(t *testing.T) {
	h, db := setupFeedTest(t)
	sellerA, sellerB := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&models.Product{SellerID: sellerA, Name: "Gạo ST25", Price: 35000, Unit: "kg"}).Error)
	require.NoError(t, db.Create(&models.Product{SellerID: sellerA, Name: "Tôm sú", Price: 250000, Unit: "kg"}).Error)
	require.NoError(t, db.Create(&models.Product{SellerID: sellerB, Name: "Dừa xiêm", Price: 12000, Unit: "trái"}).Error)

	app := feedAppAs(h, sellerA)

	code, parsed := doJSON(t, app, "GET", "/products", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, parsed["data"].([]interface{}), 3)

	code, parsed = doJSON(t, app, "GET", "/products?seller_id="+sellerA.String(), nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, parsed["data"].([]interface{}), 2)
}

func TestDeleteProduct_SellerOnly(t *testing.T) {
	h, db := setupFeedTest(t)
	seller := uuid.New()

	product := &models.Product{SellerID: seller, Name: "Cua biển", Price: 180000, Unit: "kg"}
	require.NoError(t, db.Create(product).Error)

	stranger := feedAppAs(h, uuid.New())
	code, _ := doJSON(t, stranger, "DELETE", "/products/"+product.ProductID.String(), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	owner := feedAppAs(h, seller)
	code, _ = doJSON(t, owner, "DELETE", "/products/"+product.ProductID.String(), nil)
	assert.Equal(t, fiber.StatusOK, code)
}
