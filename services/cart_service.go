package services

import (
	"context"
	"errors"
	"net/http"

	"thread-backend/models"
	"thread-backend/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CartService manages per-user cart lines.
type CartService interface {
	AddLine(ctx context.Context, email string, req *models.AddCartLineRequest) *ServiceError
	GetCart(ctx context.Context, email string) ([]models.CartLineWithProduct, *ServiceError)
	RemoveLine(ctx context.Context, email, id string) *ServiceError
	CountLines(ctx context.Context) (int64, *ServiceError)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

// AddLine adds quantity to the caller's (product, size) line, creating it on
// first add. Repeated adds increment the one line rather than duplicating it.
func (s *cartServiceImpl) AddLine(ctx context.Context, email string, req *models.AddCartLineRequest) *ServiceError {
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product id"}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Quantity must be positive"}
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		s.logger.Error("Failed to look up product", zap.Error(err), zap.String("product_id", req.ProductID))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to add to cart"}
	}

	if err := s.carts.AddOrIncrement(ctx, email, productID, req.Size, quantity); err != nil {
		s.logger.Error("Failed to upsert cart line", zap.Error(err), zap.String("email", email))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to add to cart"}
	}
	return nil
}

func (s *cartServiceImpl) GetCart(ctx context.Context, email string) ([]models.CartLineWithProduct, *ServiceError) {
	lines, err := s.carts.FindWithProducts(ctx, email)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err), zap.String("email", email))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}

	// Lines whose product was deleted are not displayable; checkout is
	// where they turn into a hard error.
	out := make([]models.CartLineWithProduct, 0, len(lines))
	for _, line := range lines {
		if line.Product.ID.IsZero() {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// RemoveLine deletes one line by id, scoped to the caller so one user cannot
// delete another user's lines.
func (s *cartServiceImpl) RemoveLine(ctx context.Context, email, id string) *ServiceError {
	lineID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid cart line id"}
	}

	deleted, err := s.carts.Delete(ctx, lineID, email)
	if err != nil {
		s.logger.Error("Failed to delete cart line", zap.Error(err), zap.String("email", email))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to remove from cart"}
	}
	if deleted == 0 {
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Cart line not found"}
	}
	return nil
}

func (s *cartServiceImpl) CountLines(ctx context.Context) (int64, *ServiceError) {
	total, err := s.carts.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count cart lines", zap.Error(err))
		return 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to count cart lines"}
	}
	return total, nil
}
