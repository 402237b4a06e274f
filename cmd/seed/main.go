package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/kopidesk/identity-service/config"
	"github.com/kopidesk/identity-service/internal/application"
	"github.com/kopidesk/identity-service/internal/domain/entity"
	repo "github.com/kopidesk/identity-service/internal/domain/repository"
	pginfra "github.com/kopidesk/identity-service/internal/infrastructure/postgres"
	"github.com/kopidesk/identity-service/pkg/helpers"
)

// Seeds the first admin account. Role changes require an existing admin and
// users may never promote themselves, so the initial admin has to come from
// outside the API.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	admin := &entity.User{
		Email:        application.NormalizeEmail(cfg.SeedAdminEmail),
		FullName:     cfg.SeedAdminName,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		IsVerified:   true,
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			log.Printf("admin %s already exists, nothing to do", admin.Email)
			return
		}
		log.Fatalf("failed to seed admin: %v", err)
	}
	log.Printf("seeded admin %s (id=%s)", admin.Email, admin.ID)
}
