package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"thread-backend/gateway"
	"thread-backend/models"
	"thread-backend/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// gatewayTimeout bounds the session-open call to the payment provider.
// A provider that hangs past this is treated as a checkout failure.
const gatewayTimeout = 15 * time.Second

// CheckoutService converts a user's cart into a pending order plus a
// payment redirect, and later reconciles the order when the provider
// confirms payment.
type CheckoutService interface {
	BeginCheckout(ctx context.Context, email string, req *models.CheckoutRequest) (string, *ServiceError)
	// Reconcile marks the order for transactionID paid. The flip happens at
	// most once: an already-paid order is reported as a conflict so a
	// duplicate callback is never re-announced as a fresh success, and an
	// unknown transaction id is a logged no-op failure.
	Reconcile(ctx context.Context, transactionID string) (*models.Order, *ServiceError)
	GetOrders(ctx context.Context, email string) ([]models.Order, *ServiceError)
	GetOrder(ctx context.Context, email, role, transactionID string) (*models.Order, *ServiceError)
	SignCallback(transactionID string) string
	VerifyCallbackSignature(transactionID, signature string) bool
}

type checkoutServiceImpl struct {
	carts          repository.CartRepository
	orders         repository.OrderRepository
	gateway        gateway.PaymentGateway
	callbackSecret []byte
	publicBaseURL  string
	frontendURL    string
	logger         *zap.Logger
}

func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	gw gateway.PaymentGateway,
	callbackSecret string,
	publicBaseURL string,
	frontendURL string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:          carts,
		orders:         orders,
		gateway:        gw,
		callbackSecret: []byte(callbackSecret),
		publicBaseURL:  publicBaseURL,
		frontendURL:    frontendURL,
		logger:         logger,
	}
}

func (s *checkoutServiceImpl) BeginCheckout(ctx context.Context, email string, req *models.CheckoutRequest) (string, *ServiceError) {
	if req.ShippingFee == nil || *req.ShippingFee < 0 {
		return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: "Shipping fee must be zero or positive"}
	}
	shippingFee := *req.ShippingFee

	// One aggregation reads and prices the cart; the join preserves
	// unjoined lines so a deleted product is detected in the same snapshot
	// that gets priced.
	pricedLines, err := s.carts.FindWithProducts(ctx, email)
	if err != nil {
		s.logger.Error("Failed to price cart", zap.Error(err), zap.String("email", email))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to price cart"}
	}
	if len(pricedLines) == 0 {
		return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty"}
	}

	// A line whose product was deleted is a data-integrity fault: fail the
	// whole checkout rather than silently charging for a subset of the cart.
	for _, line := range pricedLines {
		if line.Product.ID.IsZero() {
			s.logger.Warn("Cart references missing product",
				zap.String("email", email),
				zap.String("product_id", line.ProductID.Hex()),
			)
			return "", &ServiceError{StatusCode: http.StatusConflict, Message: "Cart contains products that are no longer available"}
		}
	}

	var totalPrice float64
	items := make([]models.OrderItem, 0, len(pricedLines))
	for _, line := range pricedLines {
		lineTotal := float64(line.Quantity) * line.Product.Price
		totalPrice += lineTotal
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			LineTotal: lineTotal,
		})
	}
	totalAmount := totalPrice + shippingFee

	transactionID := uuid.NewString()
	order := &models.Order{
		TransactionID: transactionID,
		Email:         email,
		Items:         items,
		TotalPrice:    totalPrice,
		ShippingFee:   shippingFee,
		TotalAmount:   totalAmount,
		Currency:      req.Currency,
		PaidStatus:    false,
		CreatedAt:     time.Now().UTC(),
	}

	// The pending order goes in before the gateway call. A crash after the
	// provider opens the session still leaves a record the callback can
	// reconcile against.
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err), zap.String("transaction_id", transactionID))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create order"}
	}

	sessionReq := &gateway.SessionRequest{
		TransactionID: transactionID,
		Amount:        totalAmount,
		Currency:      req.Currency,
		Customer: gateway.CustomerInfo{
			Name:       req.FirstName + " " + req.LastName,
			Email:      email,
			Phone:      req.Phone,
			City:       req.City,
			State:      req.State,
			PostalCode: req.Zip,
			Country:    req.Country,
		},
		SuccessURL: fmt.Sprintf("%s/api/payment/success/%s?sig=%s", s.publicBaseURL, transactionID, s.SignCallback(transactionID)),
		FailURL:    s.frontendURL + "/fail",
		CancelURL:  s.frontendURL + "/cancel",
	}

	gwCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	redirectURL, err := s.gateway.OpenSession(gwCtx, sessionReq)
	if err != nil {
		s.logger.Error("Payment gateway rejected session",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
			zap.Float64("total_amount", totalAmount),
		)
		// Compensate so no pending order survives without a gateway session.
		if delErr := s.orders.DeleteByTransactionID(ctx, transactionID); delErr != nil {
			s.logger.Error("Failed to delete orphaned order",
				zap.Error(delErr),
				zap.String("transaction_id", transactionID),
			)
		}
		return "", &ServiceError{StatusCode: http.StatusBadGateway, Message: "Payment gateway unavailable"}
	}

	s.logger.Info("Checkout session opened",
		zap.String("transaction_id", transactionID),
		zap.String("email", email),
		zap.Float64("total_amount", totalAmount),
	)
	return redirectURL, nil
}

func (s *checkoutServiceImpl) Reconcile(ctx context.Context, transactionID string) (*models.Order, *ServiceError) {
	modified, err := s.orders.MarkPaid(ctx, transactionID, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to mark order paid", zap.Error(err), zap.String("transaction_id", transactionID))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update order"}
	}

	order, err := s.orders.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Warn("Payment callback for unknown transaction", zap.String("transaction_id", transactionID))
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		s.logger.Error("Failed to load order", zap.Error(err), zap.String("transaction_id", transactionID))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load order"}
	}

	if modified == 0 {
		// Retried or duplicate callback: the order was already paid, so this
		// delivery must not trigger another success redirect.
		s.logger.Info("Duplicate payment callback", zap.String("transaction_id", transactionID))
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Order already paid"}
	}

	s.logger.Info("Order reconciled as paid",
		zap.String("transaction_id", transactionID),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return order, nil
}

func (s *checkoutServiceImpl) GetOrders(ctx context.Context, email string) ([]models.Order, *ServiceError) {
	orders, err := s.orders.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err), zap.String("email", email))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load orders"}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, email, role, transactionID string) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		s.logger.Error("Failed to load order", zap.Error(err), zap.String("transaction_id", transactionID))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load order"}
	}

	if order.Email != email && role != models.RoleAdmin {
		return nil, &ServiceError{StatusCode: http.StatusForbidden, Message: "Not your order"}
	}
	return order, nil
}

// SignCallback derives the signature embedded in a success callback URL, so
// the redirect endpoint accepts only URLs this service generated.
func (s *checkoutServiceImpl) SignCallback(transactionID string) string {
	mac := hmac.New(sha256.New, s.callbackSecret)
	mac.Write([]byte(transactionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *checkoutServiceImpl) VerifyCallbackSignature(transactionID, signature string) bool {
	expected := s.SignCallback(transactionID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
