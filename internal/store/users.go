package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Age          *int
	PhoneNumber  *string
}

// UserUpdate replaces the editable profile fields. Status is not editable.
type UserUpdate struct {
	Username    string
	Email       string
	Age         *int
	PhoneNumber *string
}

const userColumns = `id, username, email, password_hash, age, phone_number, status, is_active, date_register`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Age,
		&user.PhoneNumber,
		&user.Status,
		&user.IsActive,
		&user.DateRegister,
	)
	return user, err
}

func CreateUser(ctx context.Context, db database.DBTX, u NewUser) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, age, phone_number, status, is_active, date_register)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, CURRENT_DATE)
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Age, u.PhoneNumber, models.StatusSimple))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db database.DBTX, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func GetUserByUsername(ctx context.Context, db database.DBTX, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return user, nil
}

func UpdateUser(ctx context.Context, db database.DBTX, id int64, u UserUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $2, email = $3, age = $4, phone_number = $5
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query, id, u.Username, u.Email, u.Age, u.PhoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, database.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the user together with their cart, items, reviews and
// revoked tokens.
func DeleteUser(ctx context.Context, db database.DBTX, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectRows(result, database.ErrUserNotFound)
}
