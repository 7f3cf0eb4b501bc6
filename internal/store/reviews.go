package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

const reviewColumns = `r.id, r.user_id, u.username, r.product_id, r.star, r.text, r.created_date, r.created_at`

func scanReview(row scanner) (*models.Review, error) {
	r := &models.Review{}
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Username,
		&r.ProductID,
		&r.Star,
		&r.Text,
		&r.CreatedDate,
		&r.CreatedAt,
	)
	return r, err
}

func CreateReview(ctx context.Context, db database.DBTX, userID, productID int64, star *int, text string) (*models.Review, error) {
	query := `
		WITH r AS (
			INSERT INTO reviews (user_id, product_id, star, text, created_date, created_at)
			VALUES ($1, $2, $3, $4, CURRENT_DATE, NOW())
			RETURNING *
		)
		SELECT ` + reviewColumns + `
		FROM r JOIN users u ON u.id = r.user_id`

	review, err := scanReview(db.QueryRowContext(ctx, query, userID, productID, star, text))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func GetReview(ctx context.Context, db database.DBTX, id int64) (*models.Review, error) {
	review, err := scanReview(db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// ListReviews pages through all reviews newest first, using keyset pagination
// on (created_at, id).
func ListReviews(ctx context.Context, db database.DBTX, cursor ReviewCursor, limit int) (*CursorPage[models.Review], error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE (r.created_at, r.id) < ($1, $2)
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $3`, cursor.CreatedAt, cursor.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}

	page := &CursorPage[models.Review]{Items: reviews}
	if len(reviews) > limit {
		page.Items = reviews[:limit]
		page.HasMore = true
		last := page.Items[limit-1]
		page.NextCursor = EncodeCursor(ReviewCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func ListReviewsByProduct(ctx context.Context, db database.DBTX, productID int64) ([]models.Review, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at, r.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// UpdateReview replaces star and text of a review written by userID.
// ErrNotOwner is returned when the review exists but has another author.
func UpdateReview(ctx context.Context, db database.DBTX, userID, reviewID int64, star *int, text string) (*models.Review, error) {
	query := `
		WITH r AS (
			UPDATE reviews SET star = $3, text = $4
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + reviewColumns + `
		FROM r JOIN users u ON u.id = r.user_id`

	review, err := scanReview(db.QueryRowContext(ctx, query, reviewID, userID, star, text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reviewMissOrForeign(ctx, db, reviewID)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func DeleteReview(ctx context.Context, db database.DBTX, userID, reviewID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if err := expectRows(result, database.ErrReviewNotFound); err != nil {
		if errors.Is(err, database.ErrReviewNotFound) {
			return reviewMissOrForeign(ctx, db, reviewID)
		}
		return err
	}
	return nil
}

func reviewMissOrForeign(ctx context.Context, db database.DBTX, reviewID int64) error {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check review exists: %w", err)
	}
	if exists {
		return database.ErrNotOwner
	}
	return database.ErrReviewNotFound
}

func collectReviews(rows *sql.Rows) ([]models.Review, error) {
	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return reviews, nil
}
