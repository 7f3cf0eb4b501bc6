package models

import (
	"time"

	"github.com/safar/go-storefront/internal/i18n"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          *int      `json:"age"`
	PhoneNumber  *string   `json:"phone_number"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	DateRegister time.Time `json:"date_register"`
}

type Category struct {
	ID               int64     `json:"id"`
	Name             string    `json:"category_name"`
	Image            string    `json:"category_image"`
	NameTranslations i18n.Text `json:"-"`
}

type SubCategory struct {
	ID               int64     `json:"id"`
	Name             string    `json:"subcategory_name"`
	CategoryID       int64     `json:"category_id"`
	NameTranslations i18n.Text `json:"-"`
}

type Product struct {
	ID                      int64          `json:"id"`
	Name                    string         `json:"product_name"`
	Price                   int64          `json:"price"`
	Description             string         `json:"description"`
	SubCategoryID           int64          `json:"subcategory_id"`
	ProductType             bool           `json:"product_type"`
	Article                 int64          `json:"article"`
	Video                   *string        `json:"video"`
	CreatedDate             time.Time      `json:"created_date"`
	NameTranslations        i18n.Text      `json:"-"`
	DescriptionTranslations i18n.Text      `json:"-"`
	Images                  []ProductImage `json:"product_photo,omitempty"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Image     string `json:"product_image"`
}

type Review struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	ProductID   int64     `json:"product_id"`
	Star        *int      `json:"star"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items"`
}

// CartItem carries the product it references so totals are computed from the
// price as it is now.
type CartItem struct {
	ID        int64   `json:"id"`
	CartID    int64   `json:"cart_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

const (
	StatusGold   = "gold"
	StatusSilver = "silver"
	StatusBronze = "bronze"
	StatusSimple = "simple"
)

const (
	DefaultStar     = 1
	DefaultQuantity = 1
)
