// Package order implements the order lifecycle: placement (COD and online),
// the payment webhook, buyer/seller listings and seller status updates.
package order

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greencart_back_end/internal/middleware"
	"greencart_back_end/internal/models"
	"greencart_back_end/internal/notify"
	"greencart_back_end/internal/payment"
	"greencart_back_end/internal/pricing"
	"greencart_back_end/internal/store"
)

// Narrow views of the collaborators this workflow touches.
type (
	Orders interface {
		Create(ctx context.Context, order *models.Order) error
		MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
		SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
		ListForBuyer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
		ListForSeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error)
	}

	Catalog interface {
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	}

	Users interface {
		FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	}

	Carts interface {
		Clear(ctx context.Context, userID string) error
	}

	Gateway interface {
		CreateOrder(orderID, userID string, amount float64) (payment.CheckoutParams, error)
	}

	Ledger interface {
		FirstDelivery(ctx context.Context, paymentID string) (bool, error)
	}

	Notifier interface {
		Dispatch(subject string, email notify.OrderEmail)
	}
)

type Handler struct {
	Orders  Orders
	Catalog Catalog
	Users   Users
	Carts   Carts
	Gateway Gateway
	Events  Ledger
	Notify  Notifier

	WebhookSecret string
}

type placeRequest struct {
	Items   []models.OrderItem `json:"items"`
	Address string             `json:"address"`
}

func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// PlaceOrderCOD places a cash-on-delivery order and queues the placement
// email.
//
// POST /api/order/cod
func (h *Handler) PlaceOrderCOD(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" || len(req.Items) == 0 {
		fail(c, "Invalid data")
		return
	}

	userID, addressID, ok := h.identifiers(c, req.Address)
	if !ok {
		return
	}

	breakdown, err := h.price(c.Request.Context(), req.Items)
	if err != nil {
		fail(c, err.Error())
		return
	}

	order := &models.Order{
		UserID:      userID,
		Items:       req.Items,
		Address:     addressID,
		Amount:      breakdown.Total,
		PaymentType: models.PaymentCOD,
	}
	if err := h.Orders.Create(c.Request.Context(), order); err != nil {
		fail(c, err.Error())
		return
	}

	h.notifyOrder(c.Request.Context(), order, "Order Placed - GreenCart", models.StatusPreparing)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed Successfully"})
}

// PlaceOrderRazorpay places an online order and opens a gateway order for
// client-side payment. The order stays unpaid until the webhook confirms.
//
// POST /api/order/razorpay
func (h *Handler) PlaceOrderRazorpay(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" || len(req.Items) == 0 {
		fail(c, "Invalid data")
		return
	}

	userID, addressID, ok := h.identifiers(c, req.Address)
	if !ok {
		return
	}

	breakdown, err := h.price(c.Request.Context(), req.Items)
	if err != nil {
		fail(c, err.Error())
		return
	}

	// Gateway minimum. Checked before persistence so a rejected placement
	// leaves nothing behind.
	if breakdown.Total < pricing.MinOnlineAmount {
		fail(c, "Minimum order value must be at least ₹50 for online payments.")
		return
	}

	order := &models.Order{
		UserID:      userID,
		Items:       req.Items,
		Address:     addressID,
		Amount:      breakdown.Total,
		PaymentType: models.PaymentOnline,
	}
	if err := h.Orders.Create(c.Request.Context(), order); err != nil {
		fail(c, err.Error())
		return
	}

	params, err := h.Gateway.CreateOrder(order.ID.Hex(), userID.Hex(), breakdown.Total)
	if err != nil {
		// The pending order stays unpaid; nothing to roll back.
		fail(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"orderId":   params.OrderID,
		"amount":    params.Amount,
		"currency":  params.Currency,
		"key":       params.KeyID,
		"orderDbId": order.ID.Hex(),
	})
}

// RazorpayWebhook handles asynchronous payment confirmations. A bad
// signature is the one case that gets a non-200; everything after a valid
// signature is acknowledged so the gateway does not retry forever.
//
// POST /api/order/razorpay/webhook
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Unable to read body")
		return
	}

	signature := c.GetHeader("x-razorpay-signature")
	if !payment.VerifySignature(body, signature, h.WebhookSecret) {
		c.String(http.StatusBadRequest, "Invalid signature")
		return
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		log.Printf("❌ Webhook event decode failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if event.Event == payment.EventPaymentCaptured {
		h.handleCaptured(c.Request.Context(), event)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) handleCaptured(ctx context.Context, event payment.Event) {
	notes := event.Payload.Payment.Entity.Notes

	first, err := h.Events.FirstDelivery(ctx, event.PaymentID())
	if err != nil {
		// A ledger outage must not block payment confirmation; MarkPaid is
		// idempotent either way.
		log.Printf("⚠️ Event ledger unavailable, processing %s anyway: %v", event.PaymentID(), err)
		first = true
	}
	if !first {
		log.Printf("🔁 Replayed webhook for payment %s, skipping", event.PaymentID())
		return
	}

	orderID, err := primitive.ObjectIDFromHex(notes.OrderID)
	if err != nil {
		log.Printf("❌ Webhook carries invalid orderId %q", notes.OrderID)
		return
	}

	order, err := h.Orders.MarkPaid(ctx, orderID)
	if err != nil {
		log.Printf("❌ Could not mark order %s paid: %v", notes.OrderID, err)
		return
	}

	if err := h.Carts.Clear(ctx, notes.UserID); err != nil {
		log.Printf("⚠️ Could not clear cart for user %s: %v", notes.UserID, err)
	}

	h.notifyOrder(ctx, order, "Payment Successful - GreenCart", "Paid")
}

// GetUserOrders lists the authenticated buyer's visible orders.
//
// GET /api/order/user
func (h *Handler) GetUserOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	orders, err := h.Orders.ListForBuyer(c.Request.Context(), userID)
	if err != nil {
		fail(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// GetSellerOrders lists orders containing the seller's products, with line
// items filtered to that seller.
//
// GET /api/order/seller
func (h *Handler) GetSellerOrders(c *gin.Context) {
	sellerID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxSellerID))
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	orders, err := h.Orders.ListForSeller(c.Request.Context(), sellerID)
	if err != nil {
		fail(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// UpdateOrderStatus applies a seller-driven status change. Status is
// free-form; delivering a COD order also marks it paid.
//
// PUT /api/order/update-status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.Status == "" {
		fail(c, "Invalid data")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		fail(c, "Invalid data")
		return
	}

	order, err := h.Orders.SetStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			fail(c, "Order not found")
			return
		}
		fail(c, err.Error())
		return
	}

	h.notifyOrder(c.Request.Context(), order, "Order Status Updated - "+req.Status, req.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated successfully"})
}

// identifiers resolves the authenticated buyer and the address reference
// from the request. Writes the failure envelope itself when invalid.
func (h *Handler) identifiers(c *gin.Context, address string) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, "Not Authorized")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	addressID, err := primitive.ObjectIDFromHex(address)
	if err != nil {
		fail(c, "Invalid data")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, addressID, true
}

// price resolves unit prices from the live catalog and totals the order.
func (h *Handler) price(ctx context.Context, items []models.OrderItem) (pricing.Breakdown, error) {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product, err := h.Catalog.FindByID(ctx, item.Product)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		lines = append(lines, pricing.Line{UnitPrice: product.OfferPrice, Quantity: item.Quantity})
	}
	return pricing.Calculate(lines), nil
}

// notifyOrder queues the status email for an order. Lookup or send
// problems are logged and never fail the caller.
func (h *Handler) notifyOrder(ctx context.Context, order *models.Order, subject, status string) {
	user, err := h.Users.FindByID(ctx, order.UserID)
	if err != nil {
		log.Printf("⚠️ No buyer %s for order %s, skipping email: %v", order.UserID.Hex(), order.ID.Hex(), err)
		return
	}

	h.Notify.Dispatch(subject, notify.OrderEmail{
		To:            user.Email,
		Name:          user.Name,
		OrderID:       order.ID.Hex(),
		Status:        status,
		Quantity:      order.TotalQuantity(),
		PaymentMethod: order.PaymentMethodLabel(),
		Amount:        order.Amount,
		OrderDate:     order.CreatedAt.Format("02/01/2006"),
	})
}
