package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. carts.user_id is unique, so concurrent first accesses converge on
// the same row: the losing INSERT hits ON CONFLICT DO NOTHING and the
// following SELECT, running in a fresh statement snapshot, sees the winner.
// Reads of an existing cart never write.
func GetOrCreateCart(ctx context.Context, db database.DBTX, userID int64) (*models.Cart, error) {
	cart, err := getCartByUser(ctx, db, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart = &models.Cart{}
	err = db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, created_at`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	switch {
	case err == nil:
		return cart, nil
	case errors.Is(err, sql.ErrNoRows):
		cart, err = getCartByUser(ctx, db, userID)
		if err != nil {
			return nil, fmt.Errorf("get cart after conflict: %w", err)
		}
		return cart, nil
	case database.IsForeignKeyViolation(err):
		return nil, database.ErrUserNotFound
	default:
		return nil, fmt.Errorf("create cart: %w", err)
	}
}

func getCartByUser(ctx context.Context, db database.DBTX, userID int64) (*models.Cart, error) {
	cart := &models.Cart{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE user_id = $1`,
		userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// LoadCart returns the user's cart (creating it if needed) with its items and
// their current products.
func LoadCart(ctx context.Context, db database.DBTX, userID int64) (*models.Cart, error) {
	cart, err := GetOrCreateCart(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	items, err := ListCartItems(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

const cartItemQuery = `
	SELECT ` + productColumns + `, ci.id, ci.cart_id, ci.quantity
	FROM cart_items ci
	JOIN carts c ON c.id = ci.cart_id
	JOIN products p ON p.id = ci.product_id
	WHERE c.user_id = $1`

func scanCartItem(row scanner) (*models.CartItem, error) {
	item := &models.CartItem{}
	product, err := scanProduct(row, &item.ID, &item.CartID, &item.Quantity)
	if err != nil {
		return nil, err
	}
	item.Product = *product
	item.ProductID = product.ID
	return item, nil
}

// ListCartItems returns only items in carts owned by userID.
func ListCartItems(ctx context.Context, db database.DBTX, userID int64) ([]models.CartItem, error) {
	rows, err := db.QueryContext(ctx, cartItemQuery+` ORDER BY ci.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := attachItemImages(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartItem returns ErrCartItemNotFound both for unknown ids and for items
// in another user's cart.
func GetCartItem(ctx context.Context, db database.DBTX, userID, itemID int64) (*models.CartItem, error) {
	item, err := scanCartItem(db.QueryRowContext(ctx, cartItemQuery+` AND ci.id = $2`, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}

	items := []models.CartItem{*item}
	if err := attachItemImages(ctx, db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// CreateCartItem appends a new line to the user's cart, creating the cart
// first if needed. Lines for the same product are not merged.
func CreateCartItem(ctx context.Context, db *sql.DB, userID, productID int64, quantity int) (*models.CartItem, error) {
	var itemID int64

	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		cart, err := GetOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id`, cart.ID, productID, quantity).Scan(&itemID)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return database.ErrProductNotFound
			}
			return fmt.Errorf("create cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCartItem(ctx, db, userID, itemID)
}

// UpdateCartItem sets the quantity and, when productID is non-nil, the
// product of an item owned by userID.
func UpdateCartItem(ctx context.Context, db database.DBTX, userID, itemID int64, productID *int64, quantity int) (*models.CartItem, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE cart_items ci
		SET quantity = $3,
		    product_id = COALESCE($4, ci.product_id)
		FROM carts c
		WHERE ci.cart_id = c.id
		  AND c.user_id = $1
		  AND ci.id = $2`, userID, itemID, quantity, productID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if err := expectRows(result, database.ErrCartItemNotFound); err != nil {
		return nil, err
	}

	return GetCartItem(ctx, db, userID, itemID)
}

// DeleteCartItem removes an item owned by userID. The cart itself stays.
func DeleteCartItem(ctx context.Context, db database.DBTX, userID, itemID int64) error {
	result, err := db.ExecContext(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id
		  AND c.user_id = $1
		  AND ci.id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return expectRows(result, database.ErrCartItemNotFound)
}

func attachItemImages(ctx context.Context, db database.DBTX, items []models.CartItem) error {
	products := make([]models.Product, len(items))
	for i := range items {
		products[i] = items[i].Product
	}
	if err := attachImages(ctx, db, products); err != nil {
		return err
	}
	for i := range items {
		items[i].Product.Images = products[i].Images
	}
	return nil
}
