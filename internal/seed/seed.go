// Package seed loads catalog data (categories, subcategories, products and
// their translations) from a YAML file into the database.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/store"
)

type Catalog struct {
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name          string        `yaml:"name"`
	Image         string        `yaml:"image"`
	Translations  i18n.Text     `yaml:"translations"`
	SubCategories []SubCategory `yaml:"subcategories"`
}

type SubCategory struct {
	Name         string    `yaml:"name"`
	Translations i18n.Text `yaml:"translations"`
	Products     []Product `yaml:"products"`
}

type Product struct {
	Name                    string    `yaml:"name"`
	Article                 int64     `yaml:"article"`
	Price                   int64     `yaml:"price"`
	Description             string    `yaml:"description"`
	ProductType             *bool     `yaml:"product_type"`
	Video                   *string   `yaml:"video"`
	Translations            i18n.Text `yaml:"translations"`
	DescriptionTranslations i18n.Text `yaml:"description_translations"`
	Images                  []string  `yaml:"images"`
}

type Stats struct {
	Categories    int
	SubCategories int
	Products      int
}

// Parse decodes and checks a catalog file. Unknown keys are rejected so a
// typo does not silently drop data.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	articles := map[int64]string{}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category without name")
		}
		for _, sub := range cat.SubCategories {
			if sub.Name == "" {
				return fmt.Errorf("subcategory without name in %q", cat.Name)
			}
			for _, p := range sub.Products {
				if p.Name == "" {
					return fmt.Errorf("product without name in %q", sub.Name)
				}
				if p.Price < 0 || p.Article < 0 {
					return fmt.Errorf("product %q: price and article must not be negative", p.Name)
				}
				if prev, ok := articles[p.Article]; ok {
					return fmt.Errorf("article %d used by both %q and %q", p.Article, prev, p.Name)
				}
				articles[p.Article] = p.Name
			}
		}
	}
	return nil
}

// Apply upserts the whole catalog in one transaction. Products are keyed by
// article, so running the same file twice changes nothing.
func Apply(ctx context.Context, db *sql.DB, c *Catalog) (Stats, error) {
	var stats Stats

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		stats = Stats{}
		for _, cat := range c.Categories {
			category, err := store.UpsertCategory(ctx, tx, cat.Name, cat.Image, cat.Translations)
			if err != nil {
				return fmt.Errorf("category %q: %w", cat.Name, err)
			}
			stats.Categories++

			for _, s := range cat.SubCategories {
				sub, err := store.UpsertSubCategory(ctx, tx, category.ID, s.Name, s.Translations)
				if err != nil {
					return fmt.Errorf("subcategory %q: %w", s.Name, err)
				}
				stats.SubCategories++

				for _, p := range s.Products {
					productType := true
					if p.ProductType != nil {
						productType = *p.ProductType
					}
					product, err := store.UpsertProduct(ctx, tx, store.ProductInput{
						Name:                    p.Name,
						Price:                   p.Price,
						Description:             p.Description,
						SubCategoryID:           sub.ID,
						ProductType:             productType,
						Article:                 p.Article,
						Video:                   p.Video,
						NameTranslations:        p.Translations,
						DescriptionTranslations: p.DescriptionTranslations,
					})
					if err != nil {
						return fmt.Errorf("product %d: %w", p.Article, err)
					}
					if err := store.ReplaceProductImages(ctx, tx, product.ID, p.Images); err != nil {
						return fmt.Errorf("product %d images: %w", p.Article, err)
					}
					stats.Products++
				}
			}
		}
		return nil
	})
	return stats, err
}
