package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/models"
)

type ProductInput struct {
	Name                    string
	Price                   int64
	Description             string
	SubCategoryID           int64
	ProductType             bool
	Article                 int64
	Video                   *string
	NameTranslations        i18n.Text
	DescriptionTranslations i18n.Text
}

// ProductFilter narrows the product listing. Nil bounds are not applied.
type ProductFilter struct {
	CategoryID    *int64
	SubCategoryID *int64
	MinPrice      *int64
	MaxPrice      *int64
	Search        string
	Ordering      string
}

var productOrderings = map[string]string{
	"created_date":  "p.created_date ASC, p.id ASC",
	"-created_date": "p.created_date DESC, p.id DESC",
	"price":         "p.price ASC, p.id ASC",
	"-price":        "p.price DESC, p.id DESC",
}

// ValidOrdering reports whether the product listing can be sorted by o.
func ValidOrdering(o string) bool {
	_, ok := productOrderings[o]
	return ok
}

const productColumns = `p.id, p.product_name, p.price, p.description, p.subcategory_id, p.product_type,
	p.article, p.video, p.created_date, p.name_translations, p.description_translations`

func scanProduct(row scanner, extra ...interface{}) (*models.Product, error) {
	p := &models.Product{}
	dest := append([]interface{}{
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.SubCategoryID,
		&p.ProductType,
		&p.Article,
		&p.Video,
		&p.CreatedDate,
		&p.NameTranslations,
		&p.DescriptionTranslations,
	}, extra...)
	err := row.Scan(dest...)
	return p, err
}

// UpsertProduct creates the product or overwrites the one with the same
// article.
func UpsertProduct(ctx context.Context, db database.DBTX, in ProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products AS p (product_name, price, description, subcategory_id, product_type, article, video,
			created_date, name_translations, description_translations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_DATE, $8, $9)
		ON CONFLICT (article) DO UPDATE
		SET product_name = EXCLUDED.product_name,
		    price = EXCLUDED.price,
		    description = EXCLUDED.description,
		    subcategory_id = EXCLUDED.subcategory_id,
		    product_type = EXCLUDED.product_type,
		    video = EXCLUDED.video,
		    name_translations = EXCLUDED.name_translations,
		    description_translations = EXCLUDED.description_translations
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		in.Name, in.Price, in.Description, in.SubCategoryID, in.ProductType, in.Article, in.Video,
		in.NameTranslations, in.DescriptionTranslations))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("upsert product: %w", err)
	}
	return product, nil
}

// ReplaceProductImages swaps the product's image set for images.
func ReplaceProductImages(ctx context.Context, db database.DBTX, productID int64, images []string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product images: %w", err)
	}
	for _, image := range images {
		_, err := db.ExecContext(ctx,
			`INSERT INTO product_images (product_id, product_image) VALUES ($1, $2)`,
			productID, image)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return database.ErrProductNotFound
			}
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func GetProduct(ctx context.Context, db database.DBTX, id int64) (*models.Product, error) {
	product, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	products := []models.Product{*product}
	if err := attachImages(ctx, db, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func ListProducts(ctx context.Context, db database.DBTX, filter ProductFilter, page PageRequest) (*OffsetPage[models.Product], error) {
	where := &whereBuilder{}
	if filter.CategoryID != nil {
		where.add("s.category_id = ?", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		where.add("p.subcategory_id = ?", *filter.SubCategoryID)
	}
	if filter.MinPrice != nil {
		where.add("p.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where.add("p.price <= ?", *filter.MaxPrice)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		where.add("(p.product_name ILIKE ? OR CAST(p.article AS TEXT) ILIKE ?)", pattern, pattern)
	}

	from := ` FROM products p JOIN subcategories s ON s.id = p.subcategory_id` + where.sql()

	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*)`+from, where.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	orderBy, ok := productOrderings[filter.Ordering]
	if !ok {
		orderBy = "p.id ASC"
	}
	limit := where.next(page.PageSize)
	offset := where.next(page.offset())

	rows, err := db.QueryContext(ctx,
		`SELECT `+productColumns+from+` ORDER BY `+orderBy+` LIMIT `+limit+` OFFSET `+offset,
		where.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if err := attachImages(ctx, db, products); err != nil {
		return nil, err
	}

	return newOffsetPage(products, total, page)
}

func ListProductsBySubCategory(ctx context.Context, db database.DBTX, subCategoryID int64) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.subcategory_id = $1
		ORDER BY p.id`, subCategoryID)
	if err != nil {
		return nil, fmt.Errorf("list products of subcategory: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if err := attachImages(ctx, db, products); err != nil {
		return nil, err
	}
	return products, nil
}

// ReviewStarsByProduct returns every review's star (nil when unset) grouped by
// product, for computing ratings of a listing in one query.
func ReviewStarsByProduct(ctx context.Context, db database.DBTX, productIDs []int64) (map[int64][]*int, error) {
	stars := make(map[int64][]*int, len(productIDs))
	if len(productIDs) == 0 {
		return stars, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT product_id, star FROM reviews WHERE product_id = ANY($1)`,
		pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("list review stars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var star sql.NullInt16
		if err := rows.Scan(&productID, &star); err != nil {
			return nil, fmt.Errorf("scan review star: %w", err)
		}
		var s *int
		if star.Valid {
			v := int(star.Int16)
			s = &v
		}
		stars[productID] = append(stars[productID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return stars, nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}

// attachImages fills Images on each product in place.
func attachImages(ctx context.Context, db database.DBTX, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, product_id, product_image
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[int64][]models.ProductImage, len(products))
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	for i := range products {
		products[i].Images = byProduct[products[i].ID]
		if products[i].Images == nil {
			products[i].Images = []models.ProductImage{}
		}
	}
	return nil
}
