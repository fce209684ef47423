package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"thread-backend/models"
	"thread-backend/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// featuredLimit caps the storefront landing-page listing.
const featuredLimit = 8

// ProductQuery is the parsed filter set for catalog browsing.
type ProductQuery struct {
	Search     string
	Categories []string
	Sort       string // "asc" or "desc" by price
	Page       int
	Limit      int
}

// ProductPage is a catalog listing with pagination metadata.
type ProductPage struct {
	Products     []models.Product `json:"result"`
	TotalProduct int64            `json:"totalProduct"`
	TotalPage    int64            `json:"totalPage"`
	CurrentPage  int              `json:"currentPage"`
}

// ProductService is the catalog business logic.
type ProductService interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, *ServiceError)
	GetFeatured(ctx context.Context) ([]models.Product, *ServiceError)
	QueryProducts(ctx context.Context, q *ProductQuery) (*ProductPage, *ServiceError)
	GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) *ServiceError
	DeleteProduct(ctx context.Context, id string) *ServiceError
	TotalReviews(ctx context.Context) (int64, *ServiceError)
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	cache  *ProductCache
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, cache *ProductCache, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, *ServiceError) {
	if product.Reviews == nil {
		product.Reviews = []models.Review{}
	}
	id, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create product"}
	}
	product.ID = id
	s.cache.Invalidate(ctx)

	s.logger.Info("Product created", zap.String("product_id", id.Hex()), zap.String("name", product.Name))
	return product, nil
}

func (s *productServiceImpl) GetFeatured(ctx context.Context) ([]models.Product, *ServiceError) {
	cached, version, ok := s.cache.GetList(ctx, "featured")
	if ok {
		return cached, nil
	}

	findOptions := options.Find().
		SetLimit(featuredLimit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	products, err := s.repo.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		s.logger.Error("Failed to load featured products", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load products"}
	}

	s.cache.SetList(version, "featured", products)
	return products, nil
}

func (s *productServiceImpl) QueryProducts(ctx context.Context, q *ProductQuery) (*ProductPage, *ServiceError) {
	filter := bson.M{}
	if len(q.Categories) > 0 {
		filter["category"] = bson.M{"$in": q.Categories}
	}
	if q.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	priceOrder := -1
	if q.Sort == "asc" {
		priceOrder = 1
	}

	cacheKey := fmt.Sprintf("q:%s:c:%s:s:%d:p:%d:l:%d",
		q.Search, strings.Join(q.Categories, ","), priceOrder, q.Page, q.Limit)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load products"}
	}

	products, version, ok := s.cache.GetList(ctx, cacheKey)
	if !ok {
		findOptions := options.Find().
			SetSort(bson.D{{Key: "price", Value: priceOrder}}).
			SetSkip(int64((q.Page - 1) * q.Limit)).
			SetLimit(int64(q.Limit))
		products, err = s.repo.Find(ctx, filter, findOptions)
		if err != nil {
			s.logger.Error("Failed to query products", zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load products"}
		}
		s.cache.SetList(version, cacheKey, products)
	}

	totalPage := int64(0)
	if q.Limit > 0 {
		totalPage = (total + int64(q.Limit) - 1) / int64(q.Limit)
	}

	return &ProductPage{
		Products:     products,
		TotalProduct: total,
		TotalPage:    totalPage,
		CurrentPage:  q.Page,
	}, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product id"}
	}

	cached, version, ok := s.cache.GetProduct(ctx, id)
	if ok {
		return cached, nil
	}

	product, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		s.logger.Error("Failed to load product", zap.Error(err), zap.String("product_id", id))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load product"}
	}

	s.cache.SetProduct(version, id, product)
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) *ServiceError {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product id"}
	}
	if len(updates) == 0 {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "No fields to update"}
	}

	matched, err := s.repo.Update(ctx, objectID, bson.M(updates))
	if err != nil {
		s.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", id))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update product"}
	}
	if matched == 0 {
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
	}

	s.cache.Invalidate(ctx)
	return nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id string) *ServiceError {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product id"}
	}

	deleted, err := s.repo.Delete(ctx, objectID)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to delete product"}
	}
	if deleted == 0 {
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *productServiceImpl) TotalReviews(ctx context.Context) (int64, *ServiceError) {
	total, err := s.repo.TotalReviews(ctx)
	if err != nil {
		s.logger.Error("Failed to count reviews", zap.Error(err))
		return 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to count reviews"}
	}
	return total, nil
}
