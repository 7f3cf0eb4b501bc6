package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/testutil"
)

const sample = `
categories:
  - name: Электроника
    image: photo_category/electronics.png
    translations: {en: Electronics}
    subcategories:
      - name: Телефоны
        translations: {en: Phones}
        products:
          - name: Смартфон
            article: 1001
            price: 500
            description: Быстрый
            translations: {en: Smartphone}
            images: [image_product/1001-a.jpg, image_product/1001-b.jpg]
          - name: Чехол
            article: 1002
            price: 150
            product_type: false
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Categories) != 1 || len(c.Categories[0].SubCategories) != 1 {
		t.Fatalf("Unexpected structure: %+v", c)
	}
	products := c.Categories[0].SubCategories[0].Products
	if len(products) != 2 || products[0].Translations["en"] != "Smartphone" || len(products[0].Images) != 2 {
		t.Errorf("Unexpected products: %+v", products)
	}
	if products[1].ProductType == nil || *products[1].ProductType {
		t.Errorf("Expected product_type false on the second product")
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "categories:\n  - name: A\n    colour: red\n",
		"missing name":      "categories:\n  - image: x.png\n",
		"negative price":    "categories:\n  - name: A\n    subcategories:\n      - name: B\n        products:\n          - {name: P, article: 1, price: -5}\n",
		"duplicate article": "categories:\n  - name: A\n    subcategories:\n      - name: B\n        products:\n          - {name: P, article: 1}\n          - {name: Q, article: 1}\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	db, cleanup, err := testutil.StartPostgres(ctx)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	defer cleanup()

	c, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i := 0; i < 2; i++ {
		stats, err := Apply(ctx, db, c)
		if err != nil {
			t.Fatalf("Apply #%d: %v", i+1, err)
		}
		if stats.Categories != 1 || stats.SubCategories != 1 || stats.Products != 2 {
			t.Errorf("Apply #%d: unexpected stats %+v", i+1, stats)
		}
	}

	page, err := store.ListProducts(ctx, db, store.ProductFilter{}, store.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 products after two runs, got %d", page.Total)
	}
	phone := page.Items[0]
	if phone.NameTranslations.Pick(phone.Name, "en") != "Smartphone" || len(phone.Images) != 2 {
		t.Errorf("Unexpected product after seeding: %+v", phone)
	}
}
