package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnhKhoa14/bakery/internal/models"
)

// Seed upserts the reference data the service assumes at runtime: roles,
// categories, order statuses and payment methods. Safe to run repeatedly.
func (s *Stores) Seed(ctx context.Context) error {
	db := s.db

	roles := []string{models.RoleAdmin, models.RoleCustomer, models.RoleManager}
	for _, name := range roles {
		_, err := db.Collection("roles").UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed role %q: %w", name, err)
		}
	}
	log.Info().Int("count", len(roles)).Msg("roles seeded")

	categories := []string{"Cake", "Bread", "Pastry", "Cookie", "Cupcake", "Cream Puff"}
	for _, name := range categories {
		_, err := db.Collection("categories").UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name, "productCount": 0, "isDeleted": false}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	log.Info().Int("count", len(categories)).Msg("categories seeded")

	statuses := []string{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
	}
	for _, name := range statuses {
		_, err := db.Collection("order_statuses").UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed order status %q: %w", name, err)
		}
	}
	log.Info().Int("count", len(statuses)).Msg("order statuses seeded")

	methods := []models.PaymentMethod{
		{Name: "Credit Card", IsEnabled: true},
		{Name: "PayPal", IsEnabled: true},
		{Name: "Bank Transfer", IsEnabled: false},
	}
	for _, m := range methods {
		_, err := db.Collection("payment_methods").UpdateOne(ctx,
			bson.M{"name": m.Name},
			bson.M{"$setOnInsert": bson.M{"name": m.Name, "isEnabled": m.IsEnabled}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed payment method %q: %w", m.Name, err)
		}
	}
	log.Info().Int("count", len(methods)).Msg("payment methods seeded")

	return nil
}
