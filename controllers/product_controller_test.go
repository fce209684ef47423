package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"thread-backend/models"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock Service ---
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, *services.ServiceError) {
	args := m.Called(ctx, product)
	var created *models.Product
	if args.Get(0) != nil {
		created = args.Get(0).(*models.Product)
	}
	var svcErr *services.ServiceError
	if args.Get(1) != nil {
		svcErr = args.Get(1).(*services.ServiceError)
	}
	return created, svcErr
}

func (m *MockProductService) GetFeatured(ctx context.Context) ([]models.Product, *services.ServiceError) {
	args := m.Called(ctx)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	var svcErr *services.ServiceError
	if args.Get(1) != nil {
		svcErr = args.Get(1).(*services.ServiceError)
	}
	return products, svcErr
}

func (m *MockProductService) QueryProducts(ctx context.Context, q *services.ProductQuery) (*services.ProductPage, *services.ServiceError) {
	args := m.Called(ctx, q)
	var page *services.ProductPage
	if args.Get(0) != nil {
		page = args.Get(0).(*services.ProductPage)
	}
	var svcErr *services.ServiceError
	if args.Get(1) != nil {
		svcErr = args.Get(1).(*services.ServiceError)
	}
	return page, svcErr
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*models.Product, *services.ServiceError) {
	args := m.Called(ctx, id)
	var product *models.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*models.Product)
	}
	var svcErr *services.ServiceError
	if args.Get(1) != nil {
		svcErr = args.Get(1).(*services.ServiceError)
	}
	return product, svcErr
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) *services.ServiceError {
	args := m.Called(ctx, id, updates)
	if args.Get(0) != nil {
		return args.Get(0).(*services.ServiceError)
	}
	return nil
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) *services.ServiceError {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*services.ServiceError)
	}
	return nil
}

func (m *MockProductService) TotalReviews(ctx context.Context) (int64, *services.ServiceError) {
	args := m.Called(ctx)
	var svcErr *services.ServiceError
	if args.Get(1) != nil {
		svcErr = args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(int64), svcErr
}

func newProductTestRouter(svc *MockProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewProductController(svc)

	r := gin.New()
	r.PATCH("/api/products/:id", controller.UpdateProduct)
	return r
}

func patchProduct(router *gin.Engine, id, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPatch, "/api/products/"+id, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// --- Tests ---

func TestUpdateProductController(t *testing.T) {
	t.Run("Success - whitelisted fields with valid values", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("UpdateProduct", mock.Anything, "prod-1",
			map[string]interface{}{"price": float64(42), "name": "New Name"}).
			Return(nil).Once()
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"price":42,"name":"New Name"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Non-whitelisted Field - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"reviews":[]}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "reviews")
		mockService.AssertNotCalled(t, "UpdateProduct")
	})

	t.Run("Failure - Price As String - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"price":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "price")
		mockService.AssertNotCalled(t, "UpdateProduct")
	})

	t.Run("Failure - Negative Price - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"price":-5}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "UpdateProduct")
	})

	t.Run("Failure - Sizes With Non-string Element - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"sizes":["M",7]}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "UpdateProduct")
	})

	t.Run("Failure - Blank Name - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)
		router := newProductTestRouter(mockService)

		recorder := patchProduct(router, "prod-1", `{"name":"  "}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "UpdateProduct")
	})
}
