package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SellerID    primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	Name        string             `json:"name" bson:"name"`
	Description []string           `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	OfferPrice  float64            `json:"offerPrice" bson:"offerPrice"`
	Images      []string           `json:"image" bson:"image"`
	InStock     bool               `json:"inStock" bson:"inStock"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// FirstImage returns the preview image used in cart and order listings.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
