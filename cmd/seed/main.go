// cmd/seed/main.go — Creates the demo business, branch and admin user.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"tiendapos/internal/infra"
	"tiendapos/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "tiendapos.db"
	}
	username := "admin@tiendapos.local"
	password := "1234"

	db, err := infra.NewDatabase(path)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	ctx := context.Background()

	var business model.Business
	err = db.WithContext(ctx).First(&business, "name = ?", "Tienda Demo").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		business = model.Business{Name: "Tienda Demo", TaxID: "20-12345678-9", Location: "Av. Siempre Viva 742"}
		if err := db.WithContext(ctx).Create(&business).Error; err != nil {
			log.Fatalf("create business: %v", err)
		}
	} else if err != nil {
		log.Fatalf("query business: %v", err)
	}

	var branch model.Branch
	err = db.WithContext(ctx).First(&branch, "business_id = ?", business.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		branch = model.Branch{BusinessID: business.ID, Name: "Principal", Active: true}
		if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
			log.Fatalf("create branch: %v", err)
		}
	} else if err != nil {
		log.Fatalf("query branch: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	var user model.User
	err = db.WithContext(ctx).First(&user, "username = ?", username).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			BusinessID:   business.ID,
			Username:     username,
			Name:         "Admin Demo",
			PasswordHash: string(hash),
			Role:         "admin",
			Active:       true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			log.Fatalf("create user: %v", err)
		}
	case err != nil:
		log.Fatalf("query user: %v", err)
	default:
		user.PasswordHash = string(hash)
		user.Role = "admin"
		user.Active = true
		if err := db.WithContext(ctx).Save(&user).Error; err != nil {
			log.Fatalf("update user: %v", err)
		}
	}

	fmt.Printf("✅ Usuario '%s' creado/actualizado con password '%s' (sucursal %s)\n", username, password, branch.ID)
}
