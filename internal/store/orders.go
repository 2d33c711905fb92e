package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/models"
)

type orderStore struct {
	db *database.DB
}

func (s *orderStore) orders() *mongo.Collection   { return s.db.Collection("orders") }
func (s *orderStore) details() *mongo.Collection  { return s.db.Collection("order_details") }
func (s *orderStore) statuses() *mongo.Collection { return s.db.Collection("order_statuses") }
func (s *orderStore) payments() *mongo.Collection { return s.db.Collection("payment_methods") }

// Create persists the order header, then one detail per line item. The two
// writes are independent: a failure after the header insert leaves an order
// with no details, which surfaces to the caller as an error on this call.
func (s *orderStore) Create(ctx context.Context, order *models.Order, items []models.LineItem) ([]models.OrderDetail, error) {
	order.CreatedAt = time.Now()
	res, err := s.orders().InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	details := make([]models.OrderDetail, 0, len(items))
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		d := models.OrderDetail{
			Order:    order.ID,
			Product:  it.Product,
			Discount: it.Discount,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
		details = append(details, d)
		docs = append(docs, d)
	}
	if len(docs) == 0 {
		return details, nil
	}

	inserted, err := s.details().InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order details: %w", err)
	}
	for i, id := range inserted.InsertedIDs {
		details[i].ID = id.(primitive.ObjectID)
	}
	return details, nil
}

// expandStages joins status, payment method and discount onto an order.
func expandStages(withBuyer bool) mongo.Pipeline {
	stages := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "order_statuses", "localField": "orderStatus", "foreignField": "_id", "as": "statusDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$statusDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "payment_methods", "localField": "paymentMethod", "foreignField": "_id", "as": "paymentDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$paymentDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "discounts", "localField": "discount", "foreignField": "_id", "as": "discountDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$discountDoc", "preserveNullAndEmptyArrays": true}}},
	}
	if withBuyer {
		stages = append(stages,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from": "users", "localField": "user", "foreignField": "_id", "as": "buyerDoc",
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{"path": "$buyerDoc", "preserveNullAndEmptyArrays": true}}},
		)
	}
	return stages
}

func (s *orderStore) findViews(ctx context.Context, match bson.M, withBuyer bool) ([]models.OrderView, error) {
	pipeline := append(mongo.Pipeline{{{Key: "$match", Value: match}}}, expandStages(withBuyer)...)
	cur, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	var views []models.OrderView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return views, nil
}

func (s *orderStore) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	return s.findViews(ctx, bson.M{"user": userID, "isDeleted": false}, false)
}

func (s *orderStore) All(ctx context.Context) ([]models.OrderView, error) {
	return s.findViews(ctx, bson.M{"isDeleted": false}, true)
}

func (s *orderStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.OrderView, error) {
	views, err := s.findViews(ctx, bson.M{"_id": id, "isDeleted": false}, true)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// UpdateStatus overwrites the status reference. Both the order and the status
// id have to resolve; no transition table is enforced.
func (s *orderStore) UpdateStatus(ctx context.Context, orderID, statusID primitive.ObjectID) (*models.OrderView, error) {
	var status models.OrderStatus
	err := s.statuses().FindOne(ctx, bson.M{"_id": statusID}).Decode(&status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order status: %w", err)
	}

	res, err := s.orders().UpdateOne(ctx,
		bson.M{"_id": orderID, "isDeleted": false},
		bson.M{"$set": bson.M{"orderStatus": status.ID}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.ByID(ctx, orderID)
}

// Cancel soft-deletes the order. Cancellation is one-way: a cancelled order
// no longer matches the live filter, so cancelling again is ErrNotFound.
func (s *orderStore) Cancel(ctx context.Context, orderID primitive.ObjectID) error {
	res, err := s.orders().UpdateOne(ctx,
		bson.M{"_id": orderID, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *orderStore) Track(ctx context.Context, orderID primitive.ObjectID) (*models.TrackedOrder, error) {
	view, err := s.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"order": orderID, "isDeleted": false}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "products", "localField": "product", "foreignField": "_id", "as": "productDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$productDoc", "preserveNullAndEmptyArrays": true}}},
	}
	cur, err := s.details().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	var items []models.OrderDetailView
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order details: %w", err)
	}

	return &models.TrackedOrder{OrderView: *view, Items: items}, nil
}

// Statistics sums live orders, optionally constrained to a createdAt range.
func (s *orderStore) Statistics(ctx context.Context, start, end *time.Time) (*models.OrderStatistics, error) {
	match := bson.M{"isDeleted": false}
	if start != nil && end != nil {
		match["createdAt"] = bson.M{"$gte": *start, "$lte": *end}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalSales":  bson.M{"$sum": "$totalPrice"},
			"totalOrders": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statistics: %w", err)
	}
	var rows []models.OrderStatistics
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode order statistics: %w", err)
	}
	if len(rows) == 0 {
		return &models.OrderStatistics{}, nil
	}
	return &rows[0], nil
}

func (s *orderStore) StatusByName(ctx context.Context, name string) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := s.statuses().FindOne(ctx, bson.M{"name": name}).Decode(&status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order status: %w", err)
	}
	return &status, nil
}

func (s *orderStore) PaymentMethodByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := s.payments().FindOne(ctx, bson.M{"_id": id}).Decode(&method)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method: %w", err)
	}
	return &method, nil
}
