package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greencart_back_end/internal/models"
)

// CatalogStore reads the product catalog. Order pricing always goes through
// FindByID at placement time, never through client-supplied prices.
type CatalogStore struct {
	db *mongo.Database
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (s *CatalogStore) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.db.Collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
