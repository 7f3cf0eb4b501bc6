package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

const DefaultPassword = "correct-horse-42"

func CreateUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Hash password: %v", err)
	}
	user, err := store.CreateUser(context.Background(), db, store.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("Create user %s: %v", username, err)
	}
	return user
}

// Catalog is a single category/subcategory pair for products to live in.
type Catalog struct {
	Category    *models.Category
	SubCategory *models.SubCategory
}

func CreateCatalog(t *testing.T, db *sql.DB, category, subcategory string) Catalog {
	t.Helper()
	ctx := context.Background()

	c, err := store.UpsertCategory(ctx, db, category, "photo_category/"+category+".png", nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	s, err := store.UpsertSubCategory(ctx, db, c.ID, subcategory, nil)
	if err != nil {
		t.Fatalf("Create subcategory: %v", err)
	}
	return Catalog{Category: c, SubCategory: s}
}

// CreateProduct adds (or re-prices, for an existing article) a product with
// one image.
func CreateProduct(t *testing.T, db *sql.DB, c Catalog, name string, article, price int64) *models.Product {
	t.Helper()
	ctx := context.Background()

	p, err := store.UpsertProduct(ctx, db, store.ProductInput{
		Name:          name,
		Price:         price,
		Description:   name + " description",
		SubCategoryID: c.SubCategory.ID,
		ProductType:   true,
		Article:       article,
	})
	if err != nil {
		t.Fatalf("Create product %s: %v", name, err)
	}
	if err := store.ReplaceProductImages(ctx, db, p.ID, []string{fmt.Sprintf("image_product/%d.jpg", article)}); err != nil {
		t.Fatalf("Create product image: %v", err)
	}
	return p
}
