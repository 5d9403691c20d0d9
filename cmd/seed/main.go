package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pixcredit/config"
	pginfra "github.com/oksasatya/pixcredit/internal/infrastructure/postgres"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	email := "demo@pixcredit.local"
	password := "password123"
	name := "Demo User"
	credits := 5
	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, is_verified, credit_balance)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id
	`, email, hash, name, credits).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s credits=%d\n", id, email, name, password, credits)
}
