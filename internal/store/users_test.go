package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	age := 30
	phone := "+996555123456"
	user, err := store.CreateUser(ctx, db, store.NewUser{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Age:          &age,
		PhoneNumber:  &phone,
	})
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if user.Status != models.StatusSimple {
		t.Errorf("Expected status %q, got %q", models.StatusSimple, user.Status)
	}
	if !user.IsActive {
		t.Error("New users should be active")
	}
	if user.Age == nil || *user.Age != 30 {
		t.Errorf("Expected age 30, got %v", user.Age)
	}

	byName, err := store.GetUserByUsername(ctx, db, "alice")
	if err != nil {
		t.Fatalf("Get user by username: %v", err)
	}
	if byName.ID != user.ID || byName.PasswordHash != "hash" {
		t.Errorf("Unexpected user: %+v", byName)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)

	testutil.CreateUser(t, db, "alice")
	_, err := store.CreateUser(context.Background(), db, store.NewUser{Username: "alice", PasswordHash: "x"})
	if !errors.Is(err, database.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestCreateUserAgeOutOfRange(t *testing.T) {
	db := setupTestDB(t)

	age := 12
	_, err := store.CreateUser(context.Background(), db, store.NewUser{Username: "kid", PasswordHash: "x", Age: &age})
	if !database.IsCheckViolation(err) {
		t.Errorf("Expected a check violation, got %v", err)
	}
}

func TestUpdateAndDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "carol")

	updated, err := store.UpdateUser(ctx, db, user.ID, store.UserUpdate{Username: "bobby", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("Update user: %v", err)
	}
	if updated.Username != "bobby" || updated.Email != "b@example.com" {
		t.Errorf("Unexpected user after update: %+v", updated)
	}

	if _, err := store.UpdateUser(ctx, db, user.ID, store.UserUpdate{Username: "carol"}); !errors.Is(err, database.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	if err := store.DeleteUser(ctx, db, user.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}
	if _, err := store.GetUser(ctx, db, user.ID); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
	}
	if err := store.DeleteUser(ctx, db, user.ID); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestDeleteUserCascadesToCart(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "dora")
	catalog := testutil.CreateCatalog(t, db, "Food", "Fruit")
	product := testutil.CreateProduct(t, db, catalog, "Apple", 1101, 5)

	if _, err := store.CreateCartItem(ctx, db, user.ID, product.ID, 2); err != nil {
		t.Fatalf("Add item: %v", err)
	}
	if err := store.DeleteUser(ctx, db, user.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}

	var carts, items int
	if err := db.QueryRow(`SELECT (SELECT COUNT(*) FROM carts), (SELECT COUNT(*) FROM cart_items)`).Scan(&carts, &items); err != nil {
		t.Fatalf("Count rows: %v", err)
	}
	if carts != 0 || items != 0 {
		t.Errorf("Expected cart and items to be removed, found %d carts and %d items", carts, items)
	}
}
