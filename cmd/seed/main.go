package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/recruitment-accounts/config"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
)

// seeds one account with a local password and one Google-style account without.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	hasher := helpers.NewPasswordHasher(cfg.BcryptCost, 1)

	email := "demo@recruits.local"
	password := "password123"
	name := "Demo Candidate"
	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, admission_number, year, domain)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash
		RETURNING id
	`, email, hash, name, "ADM-0001", "2", "web").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	var gid string
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, NULL, $2)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, "google.demo@recruits.local", "Google Demo").Scan(&gid)
	if err != nil {
		log.Fatalf("failed to seed google user: %v", err)
	}
	fmt.Printf("seeded passwordless user: id=%s (sign in through /api/auth/google)\n", gid)
}
