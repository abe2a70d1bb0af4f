package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"invest_platform/internal/db"
	"invest_platform/internal/domain"
	"invest_platform/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Creates an admin account, or promotes an existing one. Intended for
// bootstrapping a fresh deployment.
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (required when creating)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewAccountRepository(pool)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, *email)
	if err == nil {
		if err := repo.SetRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			log.Fatalf("promote failed: %v", err)
		}
		log.Printf("promoted existing account id=%d to admin\n", existing.ID)
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	if *password == "" {
		log.Fatal("-password is required to create a new admin account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	account := &domain.Account{
		Email:        *email,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         domain.RoleAdmin,
	}
	if err := repo.Create(ctx, account); err != nil {
		log.Fatalf("create admin failed: %v", err)
	}

	log.Printf("admin account created id=%d email=%s\n", account.ID, account.Email)
}
