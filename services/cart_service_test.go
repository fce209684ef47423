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

// ---- mock cart repository ----

type mockCartRepo struct {
	quantities map[string]int
	addErr     error

	joined  []models.CartLineWithProduct
	joinErr error

	deleted   int64
	deleteErr error
	count     int64
	countErr  error
}

func cartKey(email string, productID primitive.ObjectID, size string) string {
	return email + "|" + productID.Hex() + "|" + size
}

func (m *mockCartRepo) AddOrIncrement(_ context.Context, email string, productID primitive.ObjectID, size string, quantity int) error {
	if m.addErr != nil {
		return m.addErr
	}
	if m.quantities == nil {
		m.quantities = make(map[string]int)
	}
	m.quantities[cartKey(email, productID, size)] += quantity
	return nil
}

func (m *mockCartRepo) FindWithProducts(_ context.Context, _ string) ([]models.CartLineWithProduct, error) {
	return m.joined, m.joinErr
}

func (m *mockCartRepo) Delete(_ context.Context, _ primitive.ObjectID, _ string) (int64, error) {
	return m.deleted, m.deleteErr
}

func (m *mockCartRepo) Count(_ context.Context) (int64, error) {
	return m.count, m.countErr
}

// ---- mock product repository ----

type mockProductRepo struct {
	findByIDProduct *models.Product
	findByIDErr     error
}

func (m *mockProductRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Product, error) {
	return m.findByIDProduct, m.findByIDErr
}

func (m *mockProductRepo) Find(_ context.Context, _ bson.M, _ *options.FindOptions) ([]models.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Count(_ context.Context, _ bson.M) (int64, error) { return 0, nil }

func (m *mockProductRepo) Create(_ context.Context, _ *models.Product) (primitive.ObjectID, error) {
	return primitive.NilObjectID, nil
}

func (m *mockProductRepo) Update(_ context.Context, _ primitive.ObjectID, _ bson.M) (int64, error) {
	return 0, nil
}

func (m *mockProductRepo) Delete(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *mockProductRepo) TotalReviews(_ context.Context) (int64, error) { return 0, nil }

// ---- helpers ----

func newCartService(carts *mockCartRepo, products *mockProductRepo) services.CartService {
	logger, _ := zap.NewDevelopment()
	return services.NewCartService(carts, products, logger)
}

// ---- tests ----

func TestAddLine_DefaultsQuantityToOne(t *testing.T) {
	productID := primitive.NewObjectID()
	carts := &mockCartRepo{}
	products := &mockProductRepo{findByIDProduct: &models.Product{ID: productID, Name: "Tee"}}
	svc := newCartService(carts, products)

	svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
		ProductID: productID.Hex(),
		Size:      "M",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, 1, carts.quantities[cartKey("alice@example.com", productID, "M")])
}

func TestAddLine_RepeatedAddIncrementsOneLine(t *testing.T) {
	productID := primitive.NewObjectID()
	carts := &mockCartRepo{}
	products := &mockProductRepo{findByIDProduct: &models.Product{ID: productID, Name: "Tee"}}
	svc := newCartService(carts, products)

	for i := 0; i < 2; i++ {
		svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
			ProductID: productID.Hex(),
			Size:      "M",
			Quantity:  1,
		})
		assert.Nil(t, svcErr)
	}

	assert.Len(t, carts.quantities, 1)
	assert.Equal(t, 2, carts.quantities[cartKey("alice@example.com", productID, "M")])
}

func TestAddLine_DifferentSizesAreSeparateLines(t *testing.T) {
	productID := primitive.NewObjectID()
	carts := &mockCartRepo{}
	products := &mockProductRepo{findByIDProduct: &models.Product{ID: productID, Name: "Tee"}}
	svc := newCartService(carts, products)

	for _, size := range []string{"M", "L"} {
		svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
			ProductID: productID.Hex(),
			Size:      size,
		})
		assert.Nil(t, svcErr)
	}

	assert.Len(t, carts.quantities, 2)
}

func TestAddLine_InvalidProductID(t *testing.T) {
	svc := newCartService(&mockCartRepo{}, &mockProductRepo{})

	svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
		ProductID: "not-a-hex-id",
		Size:      "M",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestAddLine_NegativeQuantity(t *testing.T) {
	productID := primitive.NewObjectID()
	svc := newCartService(&mockCartRepo{}, &mockProductRepo{})

	svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
		ProductID: productID.Hex(),
		Size:      "M",
		Quantity:  -3,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestAddLine_UnknownProduct(t *testing.T) {
	productID := primitive.NewObjectID()
	products := &mockProductRepo{findByIDErr: mongo.ErrNoDocuments}
	svc := newCartService(&mockCartRepo{}, products)

	svcErr := svc.AddLine(context.Background(), "alice@example.com", &models.AddCartLineRequest{
		ProductID: productID.Hex(),
		Size:      "M",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestGetCart_EmptyIsNotNil(t *testing.T) {
	svc := newCartService(&mockCartRepo{}, &mockProductRepo{})

	lines, svcErr := svc.GetCart(context.Background(), "alice@example.com")

	assert.Nil(t, svcErr)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestGetCart_HidesLinesWithDeletedProducts(t *testing.T) {
	teeID := primitive.NewObjectID()
	carts := &mockCartRepo{
		joined: []models.CartLineWithProduct{
			{
				CartLine: models.CartLine{Email: "alice@example.com", ProductID: teeID, Size: "M", Quantity: 1},
				Product:  models.Product{ID: teeID, Name: "Tee", Price: 30},
			},
			{
				// product deleted after the line was added
				CartLine: models.CartLine{Email: "alice@example.com", ProductID: primitive.NewObjectID(), Size: "L", Quantity: 1},
			},
		},
	}
	svc := newCartService(carts, &mockProductRepo{})

	lines, svcErr := svc.GetCart(context.Background(), "alice@example.com")

	assert.Nil(t, svcErr)
	assert.Len(t, lines, 1)
	assert.Equal(t, "Tee", lines[0].Product.Name)
}

func TestRemoveLine_NotFound(t *testing.T) {
	carts := &mockCartRepo{deleted: 0}
	svc := newCartService(carts, &mockProductRepo{})

	svcErr := svc.RemoveLine(context.Background(), "alice@example.com", primitive.NewObjectID().Hex())

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestRemoveLine_InvalidID(t *testing.T) {
	svc := newCartService(&mockCartRepo{}, &mockProductRepo{})

	svcErr := svc.RemoveLine(context.Background(), "alice@example.com", "garbage")

	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}
