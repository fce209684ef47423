package controllers

import (
	"io"
	"net/http"

	"thread-backend/gateway"
	"thread-backend/middleware"
	"thread-backend/models"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutController handles checkout, payment callbacks and order reads.
type CheckoutController struct {
	checkoutService services.CheckoutService
	gateway         gateway.PaymentGateway
	frontendURL     string
	logger          *zap.Logger
}

func NewCheckoutController(checkoutService services.CheckoutService, gw gateway.PaymentGateway, frontendURL string, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		gateway:         gw,
		frontendURL:     frontendURL,
		logger:          logger,
	}
}

// CreateOrder handles POST /api/order: prices the caller's cart, persists a
// pending order and returns the gateway redirect URL.
func (cc *CheckoutController) CreateOrder(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	identity := middleware.IdentityFromContext(c)
	redirectURL, svcErr := cc.checkoutService.BeginCheckout(c.Request.Context(), identity.Email, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, models.CheckoutResponse{URL: redirectURL})
}

// PaymentSuccess handles the gateway's success callback at
// /api/payment/success/:tranId. The URL carries a signature generated at
// checkout time; callbacks without it are rejected.
func (cc *CheckoutController) PaymentSuccess(c *gin.Context) {
	transactionID := c.Param("tranId")

	if !cc.checkoutService.VerifyCallbackSignature(transactionID, c.Query("sig")) {
		cc.logger.Warn("Payment callback with bad signature", zap.String("transaction_id", transactionID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid callback signature"})
		return
	}

	if _, svcErr := cc.checkoutService.Reconcile(c.Request.Context(), transactionID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.Redirect(http.StatusSeeOther, cc.frontendURL+"/paymentSuccess/"+transactionID)
}

// PaymentWebhook handles POST /api/payment/webhook, the provider's signed
// server-to-server notification. It reconciles the same way the redirect
// callback does, so either delivery path alone completes the order.
func (cc *CheckoutController) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	event, err := cc.gateway.VerifyCallback(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		cc.logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook"})
		return
	}

	if event.Succeeded {
		if _, svcErr := cc.checkoutService.Reconcile(c.Request.Context(), event.TransactionID); svcErr != nil {
			// Unknown transaction ids are logged no-ops; the provider still
			// gets a 200 so it stops retrying a callback we cannot use.
			cc.logger.Warn("Webhook reconciliation failed",
				zap.String("transaction_id", event.TransactionID),
				zap.Int("status", svcErr.StatusCode),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// ListOrders handles GET /api/orders for the authenticated caller.
func (cc *CheckoutController) ListOrders(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	orders, svcErr := cc.checkoutService.GetOrders(c.Request.Context(), identity.Email)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:tranId, visible to the owner or an admin.
func (cc *CheckoutController) GetOrder(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	order, svcErr := cc.checkoutService.GetOrder(c.Request.Context(), identity.Email, identity.Role, c.Param("tranId"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}
