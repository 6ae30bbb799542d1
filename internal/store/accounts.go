package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greencart_back_end/internal/models"
)

type UserStore struct {
	db *mongo.Database
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if _, err := s.db.Collection("users").InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

type SellerStore struct {
	db *mongo.Database
}

func NewSellerStore(db *mongo.Database) *SellerStore {
	return &SellerStore{db: db}
}

func (s *SellerStore) FindByEmail(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	err := s.db.Collection("sellers").FindOne(ctx, bson.M{"email": email}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find seller by email: %w", err)
	}
	return &seller, nil
}

func (s *SellerStore) List(ctx context.Context) ([]models.Seller, error) {
	cursor, err := s.db.Collection("sellers").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer cursor.Close(ctx)

	var sellers []models.Seller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("decode sellers: %w", err)
	}
	return sellers, nil
}

type AddressStore struct {
	db *mongo.Database
}

func NewAddressStore(db *mongo.Database) *AddressStore {
	return &AddressStore{db: db}
}

func (s *AddressStore) Create(ctx context.Context, address *models.Address) error {
	address.ID = primitive.NewObjectID()
	if _, err := s.db.Collection("addresses").InsertOne(ctx, address); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *AddressStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := s.db.Collection("addresses").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return addresses, nil
}

func (s *AddressStore) List(ctx context.Context) ([]models.Address, error) {
	cursor, err := s.db.Collection("addresses").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return addresses, nil
}
