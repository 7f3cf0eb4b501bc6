package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/testutil"
)

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	catalog := testutil.CreateCatalog(t, db, "Books", "Poetry")
	product := testutil.CreateProduct(t, db, catalog, "Poems", 1201, 20)

	star := 4
	review, err := store.CreateReview(ctx, db, user.ID, product.ID, &star, "Lovely")
	if err != nil {
		t.Fatalf("Create review: %v", err)
	}
	if review.Username != "alice" || review.Star == nil || *review.Star != 4 {
		t.Errorf("Unexpected review: %+v", review)
	}

	noStar, err := store.CreateReview(ctx, db, user.ID, product.ID, nil, "No opinion")
	if err != nil {
		t.Fatalf("Create review without star: %v", err)
	}
	if noStar.Star != nil {
		t.Errorf("Expected nil star, got %d", *noStar.Star)
	}

	if _, err := store.CreateReview(ctx, db, user.ID, 9999, &star, "?"); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	bad := 6
	if _, err := store.CreateReview(ctx, db, user.ID, product.ID, &bad, "!"); !database.IsCheckViolation(err) {
		t.Errorf("Expected a check violation for star 6, got %v", err)
	}

	reviews, err := store.ListReviewsByProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("List reviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("Expected 2 reviews, got %d", len(reviews))
	}
}

func TestReviewOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	catalog := testutil.CreateCatalog(t, db, "Books", "Drama")
	product := testutil.CreateProduct(t, db, catalog, "Play", 1301, 15)

	star := 3
	review, err := store.CreateReview(ctx, db, author.ID, product.ID, &star, "Fine")
	if err != nil {
		t.Fatalf("Create review: %v", err)
	}

	five := 5
	if _, err := store.UpdateReview(ctx, db, other.ID, review.ID, &five, "Hacked"); !errors.Is(err, database.ErrNotOwner) {
		t.Errorf("Update by another user: expected ErrNotOwner, got %v", err)
	}
	if err := store.DeleteReview(ctx, db, other.ID, review.ID); !errors.Is(err, database.ErrNotOwner) {
		t.Errorf("Delete by another user: expected ErrNotOwner, got %v", err)
	}
	if _, err := store.UpdateReview(ctx, db, author.ID, 9999, &five, "?"); !errors.Is(err, database.ErrReviewNotFound) {
		t.Errorf("Update unknown review: expected ErrReviewNotFound, got %v", err)
	}

	updated, err := store.UpdateReview(ctx, db, author.ID, review.ID, &five, "Great after all")
	if err != nil {
		t.Fatalf("Update own review: %v", err)
	}
	if *updated.Star != 5 || updated.Text != "Great after all" {
		t.Errorf("Unexpected review after update: %+v", updated)
	}

	if err := store.DeleteReview(ctx, db, author.ID, review.ID); err != nil {
		t.Fatalf("Delete own review: %v", err)
	}
	if _, err := store.GetReview(ctx, db, review.ID); !errors.Is(err, database.ErrReviewNotFound) {
		t.Errorf("Expected ErrReviewNotFound after delete, got %v", err)
	}
}

func TestListReviewsCursor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "critic")
	catalog := testutil.CreateCatalog(t, db, "Film", "Drama")
	product := testutil.CreateProduct(t, db, catalog, "Movie", 1401, 12)

	for i := 0; i < 5; i++ {
		if _, err := store.CreateReview(ctx, db, user.ID, product.ID, nil, "r"); err != nil {
			t.Fatalf("Create review %d: %v", i, err)
		}
	}

	cursor, err := store.DecodeCursor("")
	if err != nil {
		t.Fatalf("Decode empty cursor: %v", err)
	}

	seen := map[int64]bool{}
	var pages int
	for {
		page, err := store.ListReviews(ctx, db, cursor, 2)
		if err != nil {
			t.Fatalf("List reviews: %v", err)
		}
		pages++
		for _, r := range page.Items {
			if seen[r.ID] {
				t.Errorf("Review %d returned twice", r.ID)
			}
			seen[r.ID] = true
		}
		if !page.HasMore {
			break
		}
		cursor, err = store.DecodeCursor(page.NextCursor)
		if err != nil {
			t.Fatalf("Decode cursor: %v", err)
		}
	}

	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct reviews, got %d", len(seen))
	}
	if pages != 3 {
		t.Errorf("Expected 3 pages, got %d", pages)
	}
}
