package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/testutil"
)

func int64Ptr(v int64) *int64 { return &v }

func TestUpsertAndGetProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	catalog := testutil.CreateCatalog(t, db, "Electronics", "Laptops")
	video := "product_video/demo.mp4"

	product, err := store.UpsertProduct(ctx, db, store.ProductInput{
		Name:                    "Notebook",
		Price:                   1200,
		Description:             "Light and fast",
		SubCategoryID:           catalog.SubCategory.ID,
		ProductType:             true,
		Article:                 7001,
		Video:                   &video,
		NameTranslations:        i18n.Text{"en": "Notebook", "ky": "Ноутбук"},
		DescriptionTranslations: i18n.Text{"en": "Light and fast"},
	})
	if err != nil {
		t.Fatalf("Upsert product: %v", err)
	}
	if product.ID == 0 {
		t.Error("Product ID should not be 0")
	}

	if err := store.ReplaceProductImages(ctx, db, product.ID, []string{"a.jpg", "b.jpg"}); err != nil {
		t.Fatalf("Replace images: %v", err)
	}

	got, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if got.Name != "Notebook" || got.Price != 1200 || got.Article != 7001 {
		t.Errorf("Unexpected product: %+v", got)
	}
	if got.Video == nil || *got.Video != video {
		t.Errorf("Expected video %q, got %v", video, got.Video)
	}
	if len(got.Images) != 2 || got.Images[0].Image != "a.jpg" {
		t.Errorf("Expected images [a.jpg b.jpg], got %+v", got.Images)
	}
	if got.NameTranslations.Pick(got.Name, "ky") != "Ноутбук" {
		t.Errorf("Expected ky translation, got %v", got.NameTranslations)
	}

	if err := store.ReplaceProductImages(ctx, db, product.ID, []string{"c.jpg"}); err != nil {
		t.Fatalf("Replace images again: %v", err)
	}
	got, err = store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if len(got.Images) != 1 || got.Images[0].Image != "c.jpg" {
		t.Errorf("Expected images [c.jpg], got %+v", got.Images)
	}
}

func TestUpsertProductSameArticleUpdates(t *testing.T) {
	db := setupTestDB(t)

	catalog := testutil.CreateCatalog(t, db, "Electronics", "Phones")
	first := testutil.CreateProduct(t, db, catalog, "Phone", 7101, 500)
	second := testutil.CreateProduct(t, db, catalog, "Phone Pro", 7101, 650)

	if first.ID != second.ID {
		t.Errorf("Expected the same product row, got %d and %d", first.ID, second.ID)
	}
	if second.Price != 650 || second.Name != "Phone Pro" {
		t.Errorf("Expected updated product, got %+v", second)
	}
}

func TestUpsertProductUnknownSubCategory(t *testing.T) {
	db := setupTestDB(t)

	_, err := store.UpsertProduct(context.Background(), db, store.ProductInput{
		Name:          "Orphan",
		Price:         1,
		SubCategoryID: 9999,
		Article:       7201,
	})
	if !errors.Is(err, database.ErrSubCategoryNotFound) {
		t.Errorf("Expected ErrSubCategoryNotFound, got %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := store.GetProduct(context.Background(), db, 9999); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestListProductsFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	phones := testutil.CreateCatalog(t, db, "Electronics", "Phones")
	kitchen := testutil.CreateCatalog(t, db, "Home", "Kitchen")

	testutil.CreateProduct(t, db, phones, "Budget Phone", 8001, 100)
	testutil.CreateProduct(t, db, phones, "Flagship Phone", 8002, 900)
	testutil.CreateProduct(t, db, kitchen, "Toaster", 8003, 300)
	testutil.CreateProduct(t, db, kitchen, "100% Kettle", 8004, 50)

	page := store.PageRequest{Page: 1, PageSize: 10}

	tests := []struct {
		name   string
		filter store.ProductFilter
		want   []string
	}{
		{
			name:   "no filter",
			filter: store.ProductFilter{},
			want:   []string{"Budget Phone", "Flagship Phone", "Toaster", "100% Kettle"},
		},
		{
			name:   "by category",
			filter: store.ProductFilter{CategoryID: &kitchen.Category.ID},
			want:   []string{"Toaster", "100% Kettle"},
		},
		{
			name:   "by subcategory",
			filter: store.ProductFilter{SubCategoryID: &phones.SubCategory.ID},
			want:   []string{"Budget Phone", "Flagship Phone"},
		},
		{
			name:   "price range",
			filter: store.ProductFilter{MinPrice: int64Ptr(100), MaxPrice: int64Ptr(300)},
			want:   []string{"Budget Phone", "Toaster"},
		},
		{
			name:   "search by name",
			filter: store.ProductFilter{Search: "phone"},
			want:   []string{"Budget Phone", "Flagship Phone"},
		},
		{
			name:   "search by article",
			filter: store.ProductFilter{Search: "8003"},
			want:   []string{"Toaster"},
		},
		{
			name:   "search escapes wildcards",
			filter: store.ProductFilter{Search: "100%"},
			want:   []string{"100% Kettle"},
		},
		{
			name:   "order by price desc",
			filter: store.ProductFilter{Ordering: "-price"},
			want:   []string{"Flagship Phone", "Toaster", "Budget Phone", "100% Kettle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := store.ListProducts(ctx, db, tt.filter, page)
			if err != nil {
				t.Fatalf("List products: %v", err)
			}
			if result.Total != int64(len(tt.want)) {
				t.Errorf("Expected total %d, got %d", len(tt.want), result.Total)
			}
			if len(result.Items) != len(tt.want) {
				t.Fatalf("Expected %d items, got %d", len(tt.want), len(result.Items))
			}
			for i, name := range tt.want {
				if result.Items[i].Name != name {
					t.Errorf("Item %d: expected %q, got %q", i, name, result.Items[i].Name)
				}
			}
		})
	}
}

func TestListProductsPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	catalog := testutil.CreateCatalog(t, db, "Books", "Novels")
	for i := int64(0); i < 7; i++ {
		testutil.CreateProduct(t, db, catalog, "Novel", 9000+i, 10+i)
	}

	result, err := store.ListProducts(ctx, db, store.ProductFilter{}, store.PageRequest{Page: 3, PageSize: 3})
	if err != nil {
		t.Fatalf("List products page 3: %v", err)
	}
	if result.TotalPages != 3 || len(result.Items) != 1 || result.Total != 7 {
		t.Errorf("Expected 1 item on page 3 of 3 (7 total), got %d items, %d pages, %d total",
			len(result.Items), result.TotalPages, result.Total)
	}

	_, err = store.ListProducts(ctx, db, store.ProductFilter{}, store.PageRequest{Page: 4, PageSize: 3})
	if !errors.Is(err, database.ErrInvalidPage) {
		t.Errorf("Expected ErrInvalidPage for page 4, got %v", err)
	}
}

func TestReviewStarsByProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "reviewer")
	catalog := testutil.CreateCatalog(t, db, "Music", "Guitars")
	rated := testutil.CreateProduct(t, db, catalog, "Guitar", 9101, 400)
	unrated := testutil.CreateProduct(t, db, catalog, "Strings", 9102, 10)

	four, five := 4, 5
	for _, star := range []*int{&four, &five, nil} {
		if _, err := store.CreateReview(ctx, db, user.ID, rated.ID, star, "ok"); err != nil {
			t.Fatalf("Create review: %v", err)
		}
	}

	stars, err := store.ReviewStarsByProduct(ctx, db, []int64{rated.ID, unrated.ID})
	if err != nil {
		t.Fatalf("Review stars: %v", err)
	}
	if len(stars[rated.ID]) != 3 {
		t.Errorf("Expected 3 stars for rated product, got %d", len(stars[rated.ID]))
	}
	if got := models.AverageRating(stars[rated.ID]); got != 4.5 {
		t.Errorf("Expected average 4.5, got %v", got)
	}
	if got := models.AverageRating(stars[unrated.ID]); got != 0 {
		t.Errorf("Expected average 0 without reviews, got %v", got)
	}
}
