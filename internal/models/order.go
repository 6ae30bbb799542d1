package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment types accepted at checkout.
const (
	PaymentCOD    = "COD"
	PaymentOnline = "Online"
)

// Conventional order statuses. The status field itself is free-form:
// sellers may push any label, only these carry extra behaviour
// (COD auto-paid on delivery, colour coding in emails).
const (
	StatusPreparing = "Order Preparing"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`

	// Filled from the catalog when listing, never persisted.
	Name  string  `json:"name,omitempty" bson:"-"`
	Image string  `json:"image,omitempty" bson:"-"`
	Price float64 `json:"price,omitempty" bson:"-"`
}

type Order struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Items       []OrderItem        `json:"items" bson:"items"`
	Address     primitive.ObjectID `json:"-" bson:"address"`
	Amount      float64            `json:"amount" bson:"amount"`
	PaymentType string             `json:"paymentType" bson:"paymentType"`
	IsPaid      bool               `json:"isPaid" bson:"isPaid"`
	OrderStatus string             `json:"orderStatus" bson:"orderStatus"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`

	// Shipping address snapshot resolved when listing.
	ShippingAddress *Address `json:"address,omitempty" bson:"-"`
}

// TotalQuantity sums the quantities across all line items.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// PaymentMethodLabel is the human label used in notification emails.
func (o *Order) PaymentMethodLabel() string {
	if o.PaymentType == PaymentCOD {
		return "Cash on Delivery"
	}
	return "Online Payment"
}
