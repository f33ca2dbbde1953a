package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"reversa-be/internal/entity"
	"reversa-be/pkg/database"
)

// Seeds a demo store with an operator account and both public-link
// policies, so a fresh environment is usable right after migration.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding demo store...")

	store := entity.Store{
		ID:   uuid.New(),
		Slug: "loja-demo",
		Name: "Loja Demo",
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&store).Error; err != nil {
		color.Red("Error: Failed to seed store: %v", err)
		os.Exit(1)
	}
	// Re-read in case the store already existed.
	if err := db.Where("slug = ?", store.Slug).First(&store).Error; err != nil {
		color.Red("Error: Failed to load seeded store: %v", err)
		os.Exit(1)
	}
	color.Green("  ✔ store %s (%s)", store.Name, store.Slug)

	password := os.Getenv("SEED_OPERATOR_PASSWORD")
	if password == "" {
		password = "reversa123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Error: Failed to hash password: %v", err)
		os.Exit(1)
	}

	operator := entity.User{
		ID:           uuid.New(),
		StoreID:      store.ID,
		Email:        "operador@lojademo.com.br",
		FullName:     "Operador Demo",
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&operator).Error; err != nil {
		color.Red("Error: Failed to seed operator: %v", err)
		os.Exit(1)
	}
	color.Green("  ✔ operator %s", operator.Email)

	autoLimit := 300.0
	formFields := datatypes.JSON([]byte(`[
		{"key": "motivo_detalhado", "label": "Motivo detalhado", "kind": "text", "required": true},
		{"key": "numero_pedido_nota", "label": "Número da nota fiscal", "kind": "text", "required": false}
	]`))

	policies := []entity.PolicyConfig{
		{
			ID:            uuid.New(),
			StoreID:       store.ID,
			LinkType:      entity.LinkReturns,
			WindowDays:    30,
			RequirePhotos: true,
			FormFields:    formFields,
		},
		{
			ID:               uuid.New(),
			StoreID:          store.ID,
			LinkType:         entity.LinkRefunds,
			WindowDays:       7,
			MinValue:         20,
			AutoApprove:      true,
			AutoApproveLimit: &autoLimit,
			FormFields:       formFields,
		},
	}
	for _, p := range policies {
		policy := p
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "link_type"}},
			DoNothing: true,
		}).Create(&policy).Error; err != nil {
			color.Red("Error: Failed to seed %s policy: %v", policy.LinkType, err)
			os.Exit(1)
		}
		color.Green("  ✔ %s policy (janela %d dias)", policy.LinkType, policy.WindowDays)
	}

	color.Cyan("Done. Portal: /public/v1/%s/requests", store.Slug)
}
