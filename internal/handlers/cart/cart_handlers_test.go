package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/clothes-shop/internal/config"
	"github.com/example/clothes-shop/internal/models"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	H  *CartHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		H:  &CartHandler{DB: db},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("userID", userID)
	return rec, c
}

func (env *testEnv) seedProduct(name string) models.Product {
	p := models.Product{
		Name:     name,
		Category: "shirts",
		Price:    decimal.RequireFromString("19.99"),
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func TestGetCart(t *testing.T) {
	env := newTestEnv(t)
	env.DB.Create(&models.CartItem{UserID: 1, ProductID: 2, Quantity: 3})
	env.DB.Create(&models.CartItem{UserID: 2, ProductID: 2, Quantity: 1})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, 1)
	require.NoError(t, env.H.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint(1), resp[0].UserID)
	require.Equal(t, uint(2), resp[0].ProductID)
	require.Equal(t, uint(3), resp[0].Quantity)
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("t-shirt")

	load := map[string]uint{"quantity": 2, "product_id": p.ID}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, 1)
	require.NoError(t, env.H.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(1), resp.UserID)
	require.Equal(t, p.ID, resp.ProductID)
	require.Equal(t, uint(2), resp.Quantity)
}

func TestAddToCartMergesRepeatAdd(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("t-shirt")

	load := map[string]uint{"quantity": 2, "product_id": p.ID}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, 1)
	require.NoError(t, env.H.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, 1)
	require.NoError(t, env.H.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(4), resp.Quantity)

	var n int64
	env.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&n)
	require.Equal(t, int64(1), n)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	load := map[string]uint{"quantity": 1, "product_id": 777}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load, 1)

	err := env.H.AddToCart(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteOneFromCart(t *testing.T) {
	env := newTestEnv(t)
	item := models.CartItem{UserID: 1, ProductID: 1, Quantity: 2}
	env.DB.Create(&item)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/1", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.H.DeleteOneFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(1), resp.Quantity)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	env.DB.Create(&models.CartItem{UserID: 1, ProductID: 1, Quantity: 10})
	env.DB.Create(&models.CartItem{UserID: 1, ProductID: 2, Quantity: 1})
	env.DB.Create(&models.CartItem{UserID: 2, ProductID: 1, Quantity: 1})

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil, 1)
	require.NoError(t, env.H.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Removed)

	var n int64
	env.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&n)
	require.Equal(t, int64(0), n)
	env.DB.Model(&models.CartItem{}).Where("user_id = ?", 2).Count(&n)
	require.Equal(t, int64(1), n)
}

func TestClearCartIdempotent(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil, 1)
	require.NoError(t, env.H.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(0), resp.Removed)
}
