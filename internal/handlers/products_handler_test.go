package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"commerce-service/internal/models"
	"commerce-service/internal/repository"
	"commerce-service/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestProductsHandler(t *testing.T, catalog *MockCatalogRepository, customers *MockCustomersRepository) *ProductsHandler {
	store, err := storage.NewImageStore(t.TempDir(), 10*1024*1024, testLogger())
	assert.NoError(t, err)
	return NewProductsHandler(catalog, customers, store, nil, testLogger(), 20, 100)
}

func setPrincipal(userID uuid.UUID, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("user_role", string(role))
	}
}

func multipartBody(t *testing.T, fields map[string]string, imageNames []string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestGetProductNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	productID := uuid.New()
	catalog.On("GetProductByID", productID).Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.GET("/products/:id", handler.GetProduct)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/"+productID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	catalog.AssertExpectations(t)
}

func TestGetProductInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	router := gin.New()
	router.GET("/products/:id", handler.GetProduct)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductWithDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	vendorID := uuid.New()
	categoryID := uuid.New()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Trail Runner",
		Slug:       "trail-runner-abc12345",
		VendorID:   vendorID,
		CategoryID: categoryID,
	}
	lowest := 49.99

	catalog.On("GetProductByID", product.ID).Return(product, nil)
	catalog.On("ListVariationsByProduct", product.ID).Return([]models.Variation{
		{ID: uuid.New(), ProductID: product.ID, Price: 49.99, Stock: 3},
	}, nil)
	catalog.On("LowestPrice", product.ID).Return(&lowest, nil)
	customers.On("GetUserByID", vendorID).Return(&models.User{
		ID: vendorID, Name: "Vendor One", Role: models.RoleVendor,
	}, nil)
	catalog.On("GetCategoryByID", categoryID).Return(&models.Category{
		ID: categoryID, Name: "Shoes",
	}, nil)

	router := gin.New()
	router.GET("/products/:id", handler.GetProduct)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Trail Runner")
	assert.Contains(t, w.Body.String(), "Vendor One")
	assert.Contains(t, w.Body.String(), "49.99")
	catalog.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestListProductsDecoratesLowestPrice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	withVariations := models.Product{ID: uuid.New(), Name: "Sneaker"}
	bare := models.Product{ID: uuid.New(), Name: "Gift Card"}

	catalog.On("ListProducts", 1, 20).Return([]models.Product{withVariations, bare}, int64(2), nil)
	catalog.On("LowestPrices", mock.Anything).Return(map[uuid.UUID]float64{
		withVariations.ID: 30,
	}, nil)

	router := gin.New()
	router.GET("/products", handler.ListProducts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
	assert.NotNil(t, resp.Products[0].LowestPrice)
	assert.Equal(t, float64(30), *resp.Products[0].LowestPrice)
	assert.Nil(t, resp.Products[1].LowestPrice)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	catalog.AssertExpectations(t)
}

func TestFilterProductsMalformedBound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	router := gin.New()
	router.GET("/products/filter", handler.FilterProducts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/filter?startPrice=cheap", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	if assert.NotNil(t, resp.Error.Field) {
		assert.Equal(t, "startPrice", *resp.Error.Field)
	}
	catalog.AssertNotCalled(t, "ListProductsFiltered", mock.Anything, mock.Anything, mock.Anything)
}

func TestFilterProductsFlattensRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	product := models.Product{ID: uuid.New(), Name: "Hoodie", VendorID: uuid.New(), CategoryID: uuid.New()}
	cheap := models.Variation{ID: uuid.New(), ProductID: product.ID, Price: 25}
	pricey := models.Variation{ID: uuid.New(), ProductID: product.ID, Price: 60}

	catalog.On("ListProductsFiltered", (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return([]models.Product{product}, nil)
	catalog.On("ListVariationsForProducts", []uuid.UUID{product.ID}).
		Return(map[uuid.UUID][]models.Variation{product.ID: {pricey, cheap}}, nil)

	router := gin.New()
	router.GET("/products/filter", handler.FilterProducts)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/filter?endPrice=100", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.FilterRow `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	// price bound present, so rows come back sorted ascending
	assert.Equal(t, cheap.ID, *resp.Data[0].VariationID)
	assert.Equal(t, pricey.ID, *resp.Data[1].VariationID)
	catalog.AssertExpectations(t)
}

func TestListProductsBySizeMatchesOnlyThatSize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	product := models.Product{ID: uuid.New(), Name: "Hoodie", VendorID: uuid.New(), CategoryID: uuid.New()}
	mediumSize, largeSize := "M", "L"
	medium := models.Variation{ID: uuid.New(), ProductID: product.ID, Size: &mediumSize, Price: 40}
	large := models.Variation{ID: uuid.New(), ProductID: product.ID, Size: &largeSize, Price: 45}

	catalog.On("ListProductsFiltered", (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return([]models.Product{product}, nil)
	catalog.On("ListVariationsForProducts", []uuid.UUID{product.ID}).
		Return(map[uuid.UUID][]models.Variation{product.ID: {medium, large}}, nil)

	router := gin.New()
	router.GET("/products/size/:size", handler.ListProductsBySize)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/size/M", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.FilterRow `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, medium.ID, *resp.Data[0].VariationID)
	catalog.AssertExpectations(t)
}

func TestListProductsByPriceRangeInclusiveAndSorted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	product := models.Product{ID: uuid.New(), Name: "Sneaker", VendorID: uuid.New(), CategoryID: uuid.New()}
	atLowerBound := models.Variation{ID: uuid.New(), ProductID: product.ID, Price: 20}
	inside := models.Variation{ID: uuid.New(), ProductID: product.ID, Price: 50}
	above := models.Variation{ID: uuid.New(), ProductID: product.ID, Price: 80}

	catalog.On("ListProductsFiltered", (*uuid.UUID)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
		Return([]models.Product{product}, nil)
	catalog.On("ListVariationsForProducts", []uuid.UUID{product.ID}).
		Return(map[uuid.UUID][]models.Variation{product.ID: {inside, above, atLowerBound}}, nil)

	router := gin.New()
	router.GET("/products/price/:startPrice/:endPrice", handler.ListProductsByPriceRange)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/price/20/60", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.FilterRow `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, atLowerBound.ID, *resp.Data[0].VariationID)
	assert.Equal(t, inside.ID, *resp.Data[1].VariationID)
	catalog.AssertExpectations(t)
}

func TestListProductsByPriceRangeMalformedBound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	router := gin.New()
	router.GET("/products/price/:startPrice/:endPrice", handler.ListProductsByPriceRange)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/price/20/expensive", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	if assert.NotNil(t, resp.Error.Field) {
		assert.Equal(t, "endPrice", *resp.Error.Field)
	}
	catalog.AssertNotCalled(t, "ListProductsFiltered", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	vendorID := uuid.New()
	categoryID := uuid.New()
	catalog.On("GetCategoryByID", categoryID).Return(&models.Category{ID: categoryID, Name: "Shoes"}, nil)
	catalog.On("CreateProduct", mock.AnythingOfType("*models.Product")).Return(repository.ErrDuplicateSlug)

	router := gin.New()
	router.POST("/products", setPrincipal(vendorID, models.RoleVendor), handler.CreateProduct)

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Trail Runner",
		"slug":        "trail-runner",
		"description": "Lightweight trail shoe",
		"categoryId":  categoryID.String(),
	}, []string{"front.jpg"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_SLUG", resp.Error.Code)
	catalog.AssertExpectations(t)
}

func TestCreateProductRequiresImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	vendorID := uuid.New()
	categoryID := uuid.New()
	catalog.On("GetCategoryByID", categoryID).Return(&models.Category{ID: categoryID, Name: "Shoes"}, nil)

	router := gin.New()
	router.POST("/products", setPrincipal(vendorID, models.RoleVendor), handler.CreateProduct)

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Trail Runner",
		"description": "Lightweight trail shoe",
		"categoryId":  categoryID.String(),
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	catalog.AssertNotCalled(t, "CreateProduct", mock.Anything)
}

func TestDeleteProductScopedToVendor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	vendorID := uuid.New()
	productID := uuid.New()
	// another vendor's product is indistinguishable from a missing one
	catalog.On("GetProductForVendor", productID, vendorID).Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.DELETE("/products/:id", setPrincipal(vendorID, models.RoleVendor), handler.DeleteProduct)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/products/"+productID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	catalog.AssertNotCalled(t, "DeleteProductCascade", mock.Anything)
}

func TestDeleteProductCascade(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := new(MockCatalogRepository)
	customers := new(MockCustomersRepository)
	handler := newTestProductsHandler(t, catalog, customers)

	vendorID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Hoodie", VendorID: vendorID}

	catalog.On("GetProductForVendor", product.ID, vendorID).Return(product, nil)
	catalog.On("ListVariationsByProduct", product.ID).Return([]models.Variation{
		{ID: uuid.New(), ProductID: product.ID, Price: 25},
	}, nil)
	catalog.On("DeleteProductCascade", product).Return(nil)

	router := gin.New()
	router.DELETE("/products/:id", setPrincipal(vendorID, models.RoleVendor), handler.DeleteProduct)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	catalog.AssertExpectations(t)
}
