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

type catalogStore struct {
	db *database.DB
}

func (s *catalogStore) products() *mongo.Collection     { return s.db.Collection("products") }
func (s *catalogStore) categories() *mongo.Collection   { return s.db.Collection("categories") }
func (s *catalogStore) orderDetails() *mongo.Collection { return s.db.Collection("order_details") }

func (s *catalogStore) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	filter := bson.M{"isDeleted": false}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch f.Sort {
	case "asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "desc":
		sort = bson.D{{Key: "price", Value: -1}}
	}

	opts := options.Find().
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit)).
		SetSort(sort)

	cur, err := s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := s.products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

func (s *catalogStore) ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *catalogStore) CreateProduct(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.products().InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)

	// Keep the denormalized counter in step with the catalog.
	_, err = s.categories().UpdateByID(ctx, p.Category, bson.M{"$inc": bson.M{"productCount": 1}})
	if err != nil {
		return fmt.Errorf("failed to bump category product count: %w", err)
	}
	return nil
}

func (s *catalogStore) UpdateProduct(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Product, error) {
	fields["updatedAt"] = time.Now()
	var product models.Product
	err := s.products().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (s *catalogStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	var product models.Product
	err := s.products().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}},
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	_, err = s.categories().UpdateByID(ctx, product.Category, bson.M{"$inc": bson.M{"productCount": -1}})
	if err != nil {
		return fmt.Errorf("failed to drop category product count: %w", err)
	}
	return nil
}

func (s *catalogStore) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	cur, err := s.products().Find(ctx, bson.M{
		"name":      bson.M{"$regex": query, "$options": "i"},
		"isDeleted": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *catalogStore) NewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.products().Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list new arrivals: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// BestSellers ranks products by quantity sold across live order details.
func (s *catalogStore) BestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isDeleted": false}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$product",
			"sold": bson.M{"$sum": "$quantity"},
		}}},
		{{Key: "$sort", Value: bson.M{"sold": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$match", Value: bson.M{"product.isDeleted": false}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$product"}}},
	}
	cur, err := s.orderDetails().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate best sellers: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode best sellers: %w", err)
	}
	return products, nil
}

func (s *catalogStore) ListCategories(ctx context.Context, page, limit int) ([]models.Category, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	filter := bson.M{"isDeleted": false}
	total, err := s.categories().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	opts := options.Find().SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	cur, err := s.categories().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, total, nil
}

func (s *catalogStore) CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.categories().FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (s *catalogStore) CreateCategory(ctx context.Context, c *models.Category) error {
	existing := s.categories().FindOne(ctx, bson.M{"name": c.Name, "isDeleted": false})
	if existing.Err() == nil {
		return ErrDuplicate
	}
	if !errors.Is(existing.Err(), mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing category: %w", existing.Err())
	}

	res, err := s.categories().InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *catalogStore) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*models.Category, error) {
	var category models.Category
	err := s.categories().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{"name": name}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

func (s *catalogStore) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.categories().UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *catalogStore) PopularCategories(ctx context.Context, limit int) ([]models.Category, error) {
	if limit < 1 {
		limit = 5
	}
	opts := options.Find().SetSort(bson.D{{Key: "productCount", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.categories().Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular categories: %w", err)
	}
	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}
