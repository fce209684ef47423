package services_test

import (
	"context"
	"net/http"
	"testing"

	"thread-backend/models"
	"thread-backend/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ---- mock catalog repository ----

type mockCatalogRepo struct {
	findByIDProduct *models.Product
	findByIDErr     error

	findProducts []models.Product
	findErr      error
	lastFilter   bson.M
	lastOptions  *options.FindOptions

	count    int64
	countErr error

	createID  primitive.ObjectID
	createErr error

	matched   int64
	updateErr error
	deleted   int64
	deleteErr error

	totalReviews int64
	reviewsErr   error
}

func (m *mockCatalogRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Product, error) {
	return m.findByIDProduct, m.findByIDErr
}

func (m *mockCatalogRepo) Find(_ context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Product, error) {
	m.lastFilter = filter
	m.lastOptions = findOptions
	return m.findProducts, m.findErr
}

func (m *mockCatalogRepo) Count(_ context.Context, filter bson.M) (int64, error) {
	m.lastFilter = filter
	return m.count, m.countErr
}

func (m *mockCatalogRepo) Create(_ context.Context, _ *models.Product) (primitive.ObjectID, error) {
	return m.createID, m.createErr
}

func (m *mockCatalogRepo) Update(_ context.Context, _ primitive.ObjectID, _ bson.M) (int64, error) {
	return m.matched, m.updateErr
}

func (m *mockCatalogRepo) Delete(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return m.deleted, m.deleteErr
}

func (m *mockCatalogRepo) TotalReviews(_ context.Context) (int64, error) {
	return m.totalReviews, m.reviewsErr
}

// ---- helpers ----

func newProductService(repo *mockCatalogRepo) services.ProductService {
	logger, _ := zap.NewDevelopment()
	// nil Redis client makes the cache a no-op
	return services.NewProductService(repo, services.NewProductCache(nil), logger)
}

// ---- tests ----

func TestCreateProduct_DefaultsReviewsToEmpty(t *testing.T) {
	repo := &mockCatalogRepo{createID: primitive.NewObjectID()}
	svc := newProductService(repo)

	product, svcErr := svc.CreateProduct(context.Background(), &models.Product{Name: "Tee", Price: 30})

	assert.Nil(t, svcErr)
	assert.Equal(t, repo.createID, product.ID)
	assert.NotNil(t, product.Reviews)
	assert.Empty(t, product.Reviews)
}

func TestGetProduct_InvalidID(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{})

	_, svcErr := svc.GetProduct(context.Background(), "not-hex")

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{findByIDErr: mongo.ErrNoDocuments})

	_, svcErr := svc.GetProduct(context.Background(), primitive.NewObjectID().Hex())

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestQueryProducts_FilterAndPagination(t *testing.T) {
	repo := &mockCatalogRepo{
		count:        25,
		findProducts: []models.Product{{Name: "Tee"}, {Name: "Hoodie"}},
	}
	svc := newProductService(repo)

	page, svcErr := svc.QueryProducts(context.Background(), &services.ProductQuery{
		Search:     "tee",
		Categories: []string{"men", "women"},
		Sort:       "asc",
		Page:       2,
		Limit:      10,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(25), page.TotalProduct)
	assert.Equal(t, int64(3), page.TotalPage)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Products, 2)

	assert.Equal(t, bson.M{"$in": []string{"men", "women"}}, repo.lastFilter["category"])
	assert.Contains(t, repo.lastFilter, "$or")
}

func TestQueryProducts_NoFilters(t *testing.T) {
	repo := &mockCatalogRepo{count: 3, findProducts: []models.Product{{Name: "Tee"}}}
	svc := newProductService(repo)

	page, svcErr := svc.QueryProducts(context.Background(), &services.ProductQuery{Page: 1, Limit: 10})

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1), page.TotalPage)
	assert.NotContains(t, repo.lastFilter, "category")
	assert.NotContains(t, repo.lastFilter, "$or")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{matched: 0})

	svcErr := svc.UpdateProduct(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"price": 42.0})

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestUpdateProduct_NoFields(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{})

	svcErr := svc.UpdateProduct(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{})

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{deleted: 0})

	svcErr := svc.DeleteProduct(context.Background(), primitive.NewObjectID().Hex())

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestTotalReviews(t *testing.T) {
	svc := newProductService(&mockCatalogRepo{totalReviews: 17})

	total, svcErr := svc.TotalReviews(context.Background())

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(17), total)
}
