package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/models"
)

const categoryColumns = `id, category_name, category_image, name_translations`

const subCategoryColumns = `id, subcategory_name, category_id, name_translations`

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Image, &c.NameTranslations)
	return c, err
}

func scanSubCategory(row scanner) (*models.SubCategory, error) {
	s := &models.SubCategory{}
	err := row.Scan(&s.ID, &s.Name, &s.CategoryID, &s.NameTranslations)
	return s, err
}

// UpsertCategory creates the category or refreshes the image and
// translations of the one with the same name.
func UpsertCategory(ctx context.Context, db database.DBTX, name, image string, translations i18n.Text) (*models.Category, error) {
	query := `
		INSERT INTO categories (category_name, category_image, name_translations)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_name) DO UPDATE
		SET category_image = EXCLUDED.category_image,
		    name_translations = EXCLUDED.name_translations
		RETURNING ` + categoryColumns

	category, err := scanCategory(db.QueryRowContext(ctx, query, name, image, translations))
	if err != nil {
		return nil, fmt.Errorf("upsert category: %w", err)
	}
	return category, nil
}

func GetCategory(ctx context.Context, db database.DBTX, id int64) (*models.Category, error) {
	category, err := scanCategory(db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func ListCategories(ctx context.Context, db database.DBTX, page PageRequest) (*OffsetPage[models.Category], error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY id
		LIMIT $1 OFFSET $2`, page.PageSize, page.offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(categories, total, page)
}

func UpsertSubCategory(ctx context.Context, db database.DBTX, categoryID int64, name string, translations i18n.Text) (*models.SubCategory, error) {
	query := `
		INSERT INTO subcategories (subcategory_name, category_id, name_translations)
		VALUES ($1, $2, $3)
		ON CONFLICT (subcategory_name, category_id) DO UPDATE
		SET name_translations = EXCLUDED.name_translations
		RETURNING ` + subCategoryColumns

	sub, err := scanSubCategory(db.QueryRowContext(ctx, query, name, categoryID, translations))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("upsert subcategory: %w", err)
	}
	return sub, nil
}

func GetSubCategory(ctx context.Context, db database.DBTX, id int64) (*models.SubCategory, error) {
	sub, err := scanSubCategory(db.QueryRowContext(ctx,
		`SELECT `+subCategoryColumns+` FROM subcategories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return sub, nil
}

func ListSubCategories(ctx context.Context, db database.DBTX, page PageRequest) (*OffsetPage[models.SubCategory], error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subcategories`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count subcategories: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+subCategoryColumns+`
		FROM subcategories
		ORDER BY id
		LIMIT $1 OFFSET $2`, page.PageSize, page.offset())
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	subs, err := collectSubCategories(rows)
	if err != nil {
		return nil, err
	}
	return newOffsetPage(subs, total, page)
}

func ListSubCategoriesByCategory(ctx context.Context, db database.DBTX, categoryID int64) ([]models.SubCategory, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+subCategoryColumns+`
		FROM subcategories
		WHERE category_id = $1
		ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories of category: %w", err)
	}
	defer rows.Close()

	return collectSubCategories(rows)
}

func collectSubCategories(rows *sql.Rows) ([]models.SubCategory, error) {
	subs := []models.SubCategory{}
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return subs, nil
}
