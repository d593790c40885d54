package main

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/client"
	"ecommerce-shop/internal/model"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedProduct struct {
	name  string
	price string
	stock int
}

type seedStore struct {
	name        string
	description string
	products    []seedProduct
}

var demoStores = []seedStore{
	{
		name:        "Leaf & Kettle",
		description: "Loose leaf teas from small farms.",
		products: []seedProduct{
			{"Tieguanyin Oolong", "14.50", 40},
			{"Darjeeling First Flush", "18.00", 25},
			{"Genmaicha", "9.75", 60},
		},
	},
	{
		name:        "Clay Corner",
		description: "Hand thrown mugs and teapots.",
		products: []seedProduct{
			{"Stoneware Mug", "22.00", 12},
			{"Yixing Teapot", "65.00", 4},
		},
	},
}

func seedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, stores and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			if cfg.Environment.IsProduction() {
				return fmt.Errorf("refusing to seed a production database")
			}

			db, err := client.InitDatabase(cfg.Database)
			if err != nil {
				return err
			}
			if err := client.Migrate(db); err != nil {
				return err
			}

			if err := seed(cmd.Context(), db, password); err != nil {
				return err
			}

			log.Info("demo data loaded", zap.Strings("users", []string{"vendor", "alice", "bob"}))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "password123", "password for every demo user")

	return cmd
}

func seed(ctx context.Context, db *gorm.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := seedUser(tx, "vendor", model.RoleVendor, string(hash))
		if err != nil {
			return err
		}
		for _, username := range []string{"alice", "bob"} {
			if _, err := seedUser(tx, username, model.RoleBuyer, string(hash)); err != nil {
				return err
			}
		}

		for _, s := range demoStores {
			store := model.Store{OwnerID: vendor.ID, Name: s.name}
			err := tx.Where(model.Store{OwnerID: vendor.ID, Name: s.name}).
				Attrs(model.Store{Description: s.description}).
				FirstOrCreate(&store).Error
			if err != nil {
				return fmt.Errorf("seed store %s: %w", s.name, err)
			}

			for _, p := range s.products {
				product := model.Product{StoreID: store.ID, Name: p.name}
				err := tx.Where(model.Product{StoreID: store.ID, Name: p.name}).
					Attrs(model.Product{
						Price:    decimal.RequireFromString(p.price),
						Stock:    p.stock,
						IsActive: true,
					}).
					FirstOrCreate(&product).Error
				if err != nil {
					return fmt.Errorf("seed product %s: %w", p.name, err)
				}
			}
		}
		return nil
	})
}

func seedUser(tx *gorm.DB, username string, role model.Role, passwordHash string) (*model.User, error) {
	user := model.User{Username: username}
	err := tx.Where(model.User{Username: username}).
		Attrs(model.User{
			Email:        username + "@example.com",
			Role:         role,
			PasswordHash: passwordHash,
		}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	if user.Role != role {
		return nil, apperr.Validation("role", fmt.Sprintf("existing user %s is not a %s", username, role))
	}
	return &user, nil
}
