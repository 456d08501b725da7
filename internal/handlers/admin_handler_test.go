package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"commerce-service/internal/models"
)

func newTestAdminHandler(t *testing.T, catalog *MockCatalogRepository, customers *MockCustomersRepository) *AdminHandler {
	products := newTestProductsHandler(t, catalog, customers)
	variations := NewVariationsHandler(catalog, nil, testLogger())
	return NewAdminHandler(customers, catalog, products, variations, testLogger())
}

func TestAdminUpdateProductCrossesVendorScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestAdminHandler(t, catalog, customers)

	adminID := uuid.New()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Hoodie",
		VendorID: uuid.New(),
	}
	renamed := &models.Product{ID: product.ID, Name: "Zip Hoodie", VendorID: product.VendorID}

	catalog.On("GetProductByID", product.ID).Return(product, nil).Once()
	catalog.On("UpdateProduct", product.ID, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["name"] == "Zip Hoodie"
	})).Return(nil)
	catalog.On("GetProductByID", product.ID).Return(renamed, nil).Once()

	router := gin.New()
	router.PATCH("/admin/products/:id", setPrincipal(adminID, models.RoleAdmin), handler.UpdateProduct)

	body, contentType := multipartBody(t, map[string]string{"name": "Zip Hoodie"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/admin/products/"+product.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Zip Hoodie")
	catalog.AssertExpectations(t)
}

func TestAdminUpdateProductMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestAdminHandler(t, catalog, customers)

	productID := uuid.New()
	catalog.On("GetProductByID", productID).Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.PATCH("/admin/products/:id", setPrincipal(uuid.New(), models.RoleAdmin), handler.UpdateProduct)

	body, contentType := multipartBody(t, map[string]string{"name": "Zip Hoodie"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/admin/products/"+productID.String(), body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	catalog.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}
