// Command seed creates the initial admin account so a fresh deployment can
// log in and moderate. It is idempotent: an existing admin email is left alone.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"estatehub/internal/auth"
	"estatehub/internal/config"
	"estatehub/internal/db"
	"estatehub/internal/model"
	"estatehub/internal/repository"
)

func main() {
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	policy := auth.NewPasswordPolicy(cfg.BcryptCost, cfg.PasswordMinLen)
	if err := policy.ValidateComplexity(password); err != nil {
		log.Fatalf("admin password rejected: %v", err)
	}
	passwordHash, err := policy.Hash(password)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if existing, err := users.FindByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists (id %s)", existing.Email, existing.ID)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("check admin: %v", err)
	}

	admin := &model.User{
		FirstName:    "Platform",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (id %s)", admin.Email, admin.ID)
}
