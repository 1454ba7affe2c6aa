// server/internal/database/seeder.go
package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/models"
	"medcamp-api-server/internal/store"
)

// SeedAdmin makes sure the configured bootstrap identity exists and holds the
// admin role. Without it nobody could reach the admin-only routes.
func SeedAdmin(ctx context.Context, users store.Collection, cfg config.SeedConfig) error {
	if cfg.AdminEmail == "" {
		log.Info().Msg("No seed admin configured. Seeding skipped.")
		return nil
	}

	res, err := users.UpdateOne(ctx,
		bson.M{"email": cfg.AdminEmail},
		bson.M{
			"$set":         bson.M{"role": models.RoleAdmin},
			"$setOnInsert": bson.M{"name": cfg.AdminName},
		},
		true,
	)
	if err != nil {
		return fmt.Errorf("seed admin %s: %w", cfg.AdminEmail, err)
	}

	switch {
	case res.UpsertedCount > 0:
		log.Info().Str("email", cfg.AdminEmail).Msg("Admin not found. Seeded.")
	case res.ModifiedCount > 0:
		log.Info().Str("email", cfg.AdminEmail).Msg("Existing identity promoted to admin.")
	default:
		log.Info().Str("email", cfg.AdminEmail).Msg("Admin already exists. Seeding skipped.")
	}
	return nil
}
