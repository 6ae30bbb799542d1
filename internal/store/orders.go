// Package store persists GreenCart's documents: orders, catalog, accounts
// and addresses in MongoDB, carts and the webhook-event ledger in Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greencart_back_end/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotFound      = errors.New("not found")
)

// paidOrCOD restricts listings to orders a buyer can act on: anything COD,
// or online orders whose payment was confirmed. Unpaid online orders stay
// hidden until the webhook lands.
func paidOrCOD() []bson.M {
	return []bson.M{{"paymentType": models.PaymentCOD}, {"isPaid": true}}
}

type OrderStore struct {
	db *mongo.Database
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) col() *mongo.Collection {
	return s.db.Collection("orders")
}

// Create persists a new order. Amount is fixed here and never recomputed.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	if order.OrderStatus == "" {
		order.OrderStatus = models.StatusPreparing
	}
	order.IsPaid = false
	order.CreatedAt = time.Now()

	if _, err := s.col().InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// MarkPaid flips isPaid to true. Idempotent: marking an already-paid order
// is a no-op, not an error.
func (s *OrderStore) MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	res := s.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isPaid": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var order models.Order
	if err := res.Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	return &order, nil
}

// SetStatus applies a seller-driven status update. Delivering a COD order
// marks it paid in the same update.
func (s *OrderStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	var existing models.Order
	if err := s.col().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	fields := bson.M{"orderStatus": status}
	if ApplyStatus(&existing, status) {
		fields["isPaid"] = true
	}

	if _, err := s.col().UpdateByID(ctx, id, bson.M{"$set": fields}); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return &existing, nil
}

// ApplyStatus mutates o per the status-update rule and reports whether the
// order became paid (COD reaching "Delivered").
func ApplyStatus(o *models.Order, status string) bool {
	o.OrderStatus = status
	if status == models.StatusDelivered && o.PaymentType == models.PaymentCOD && !o.IsPaid {
		o.IsPaid = true
		return true
	}
	return false
}

// ListForBuyer returns the buyer's visible orders, newest first, with line
// items and shipping address resolved against current catalog state.
func (s *OrderStore) ListForBuyer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.find(ctx, bson.M{"userId": userID, "$or": paidOrCOD()})
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListForSeller returns visible orders containing at least one of the
// seller's products, items filtered down to that seller's products only.
func (s *OrderStore) ListForSeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.find(ctx, bson.M{"$or": paidOrCOD()})
	if err != nil {
		return nil, err
	}

	products, err := s.productMap(ctx, orders)
	if err != nil {
		return nil, err
	}
	owner := make(map[primitive.ObjectID]primitive.ObjectID, len(products))
	for id, p := range products {
		owner[id] = p.SellerID
	}

	view := SellerView(orders, owner, sellerID)
	fillItems(view, products)
	if err := s.fillAddresses(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

// ListAll returns every order, newest first, for the admin console.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerView filters orders down to one seller's line items, dropping
// orders that keep none. owner maps product id to its seller.
func SellerView(orders []models.Order, owner map[primitive.ObjectID]primitive.ObjectID, sellerID primitive.ObjectID) []models.Order {
	view := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		items := make([]models.OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			if owner[item.Product] == sellerID {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		o.Items = items
		view = append(view, o)
	}
	return view
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) enrich(ctx context.Context, orders []models.Order) error {
	products, err := s.productMap(ctx, orders)
	if err != nil {
		return err
	}
	fillItems(orders, products)
	return s.fillAddresses(ctx, orders)
}

func (s *OrderStore) productMap(ctx context.Context, orders []models.Order) (map[primitive.ObjectID]models.Product, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, o := range orders {
		for _, item := range o.Items {
			if !seen[item.Product] {
				seen[item.Product] = true
				ids = append(ids, item.Product)
			}
		}
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]models.Product{}, nil
	}

	cursor, err := s.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find order products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode order products: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func fillItems(orders []models.Order, products map[primitive.ObjectID]models.Product) {
	for i := range orders {
		for j := range orders[i].Items {
			if p, ok := products[orders[i].Items[j].Product]; ok {
				orders[i].Items[j].Name = p.Name
				orders[i].Items[j].Image = p.FirstImage()
				orders[i].Items[j].Price = p.OfferPrice
			}
		}
	}
}

func (s *OrderStore) fillAddresses(ctx context.Context, orders []models.Order) error {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, o := range orders {
		if !seen[o.Address] {
			seen[o.Address] = true
			ids = append(ids, o.Address)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := s.db.Collection("addresses").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("find order addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return fmt.Errorf("decode order addresses: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Address, len(addresses))
	for _, a := range addresses {
		byID[a.ID] = a
	}
	for i := range orders {
		if a, ok := byID[orders[i].Address]; ok {
			addr := a
			orders[i].ShippingAddress = &addr
		}
	}
	return nil
}
