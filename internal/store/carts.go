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

	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/models"
)

type cartStore struct {
	db *database.DB
}

func (s *cartStore) carts() *mongo.Collection { return s.db.Collection("carts") }
func (s *cartStore) items() *mongo.Collection { return s.db.Collection("cart_items") }

func (s *cartStore) CartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOne(ctx, bson.M{"user": userID, "isDeleted": false}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

// Items joins live cart items with their product summaries.
func (s *cartStore) Items(ctx context.Context, cartID primitive.ObjectID) ([]models.CartItemView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"cart": cartID, "isDeleted": false}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "product",
			"foreignField": "_id",
			"as":           "productDoc",
		}}},
		{{Key: "$unwind", Value: "$productDoc"}},
	}
	cur, err := s.items().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	var rows []struct {
		models.CartItem `bson:",inline"`
		ProductDoc      models.ProductSummary `bson:"productDoc"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	views := make([]models.CartItemView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.CartItemView{
			ID:        row.CartItem.ID,
			Product:   row.ProductDoc,
			Quantity:  row.Quantity,
			Price:     row.Price,
			Note:      row.Note,
			IsChecked: row.IsChecked,
		})
	}
	return views, nil
}

// AddItem merges quantity into an existing live (cart, product) item, taking
// the latest unit price; otherwise it inserts a fresh item. A nil cartID
// creates a new anonymous cart first.
func (s *cartStore) AddItem(ctx context.Context, cartID *primitive.ObjectID, productID primitive.ObjectID, quantity int, price float64, note string) (*models.CartItem, error) {
	var cart models.Cart
	if cartID != nil {
		err := s.carts().FindOne(ctx, bson.M{"_id": *cartID, "isDeleted": false}).Decode(&cart)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to find cart: %w", err)
		}
	}
	if cart.ID.IsZero() {
		now := time.Now()
		cart.CreatedAt = now
		cart.UpdatedAt = now
		res, err := s.carts().InsertOne(ctx, cart)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		cart.ID = res.InsertedID.(primitive.ObjectID)
	}

	var item models.CartItem
	err := s.items().FindOneAndUpdate(ctx,
		bson.M{"cart": cart.ID, "product": productID, "isDeleted": false},
		bson.M{
			"$inc": bson.M{"quantity": quantity},
			"$set": bson.M{"price": price},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to merge cart item: %w", err)
	}

	item = models.CartItem{
		Cart:      cart.ID,
		Product:   productID,
		Quantity:  quantity,
		Price:     price,
		Note:      note,
		IsChecked: true,
	}
	res, err := s.items().InsertOne(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to insert cart item: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return &item, nil
}

// UpdateQuantity sets the quantity in place; zero or below removes the item
// record outright. A removed item returns (nil, nil).
func (s *cartStore) UpdateQuantity(ctx context.Context, itemID primitive.ObjectID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		res, err := s.items().DeleteOne(ctx, bson.M{"_id": itemID})
		if err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	}

	var item models.CartItem
	err := s.items().FindOneAndUpdate(ctx,
		bson.M{"_id": itemID},
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return &item, nil
}

func (s *cartStore) RemoveItem(ctx context.Context, itemID primitive.ObjectID) error {
	res, err := s.items().UpdateOne(ctx,
		bson.M{"_id": itemID, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *cartStore) ClearCart(ctx context.Context, cartID primitive.ObjectID) (int64, error) {
	res, err := s.items().UpdateMany(ctx,
		bson.M{"cart": cartID, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.ModifiedCount, nil
}
