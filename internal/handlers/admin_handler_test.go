package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepx/backend/internal/models"
)

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.register(t, "Shopper", "shopper@example.com")

	for _, path := range []string{"/api/admin/stats", "/api/admin/users", "/api/admin/products"} {
		rec, _ := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec, env := api.do(t, http.MethodGet, path, userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, "Insufficient permissions", env.Error)
	}
}

func TestAdminHandler_Products(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, testAdminEmail, testAdminPassword)

	rec, env := api.do(t, http.MethodPost, "/api/admin/products", admin, models.CreateProductRequest{Brand: "Nike", LowestAsk: -5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "category")
	assert.Contains(t, env.Errors, "lowestAsk")

	rec, env = api.do(t, http.MethodPost, "/api/admin/products", admin, models.CreateProductRequest{
		Name:             "Nike SB Dunk Low Travis Scott",
		Brand:            "Nike",
		Category:         "sneakers",
		LowestAsk:        95000,
		RetailPrice:      15000,
		IsXpressShipping: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[models.Product](t, env)
	assert.Equal(t, "9", created.ID)

	rec, env = api.do(t, http.MethodGet, "/api/categories/sneakers/products?sort=newest", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"9", "3", "2", "1"}, productIDs(decodeData[models.BrowseResult](t, env).Products))

	rec, env = api.do(t, http.MethodGet, "/api/admin/products?q=travis", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"9"}, productIDs(decodeData[[]models.Product](t, env)))

	rec, _ = api.do(t, http.MethodDelete, "/api/admin/products/9", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(t, http.MethodDelete, "/api/admin/products/9", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_UsersAndStats(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Sita Gurung", "sita@gurung.np")
	admin := api.login(t, testAdminEmail, testAdminPassword)

	rec, env := api.do(t, http.MethodGet, "/api/admin/users?q=GURUNG", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeData[[]models.User](t, env)
	require.Len(t, users, 1)
	assert.Equal(t, "sita@gurung.np", users[0].Email)

	rec, env = api.do(t, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]models.User](t, env), 2)

	rec, env = api.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[models.CatalogStats](t, env)
	assert.Equal(t, 8, stats.TotalProducts)
	assert.Equal(t, 3, stats.XpressProducts)
	assert.EqualValues(t, 358000, stats.TotalLowestAsk)
	assert.Equal(t, 1, stats.ByCategory["electronics"])
}

func TestAdminHandler_UpdateUserRole(t *testing.T) {
	api := newTestAPI(t)
	shopper := api.register(t, "Anita Gurung", "anita@example.com")
	admin := api.login(t, testAdminEmail, testAdminPassword)

	rec, env := api.do(t, http.MethodGet, "/api/auth/me", shopper, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeData[models.User](t, env)
	path := "/api/admin/users/" + me.ID + "/role"

	rec, _ = api.do(t, http.MethodPut, path, shopper, models.UpdateRoleRequest{Role: models.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(t, http.MethodPut, path, admin, models.UpdateRoleRequest{Role: "owner"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "role")

	rec, _ = api.do(t, http.MethodPut, "/api/admin/users/missing/role", admin, models.UpdateRoleRequest{Role: models.RoleSeller})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(t, http.MethodPut, path, admin, models.UpdateRoleRequest{Role: models.RoleSeller})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.RoleSeller, decodeData[models.User](t, env).Role)

	relogin := api.login(t, "anita@example.com", "secret123")
	rec, env = api.do(t, http.MethodGet, "/api/auth/me", relogin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleSeller, decodeData[models.User](t, env).Role)
}
