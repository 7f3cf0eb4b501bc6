package api

import (
	"github.com/safar/go-storefront/internal/models"
)

const dateFormat = "02-01-2006"

// mediaURL turns a stored media path into the URL it is served under.
func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}

type imageView struct {
	Image string `json:"product_image"`
}

type subCategoryName struct {
	Name string `json:"subcategory_name"`
}

type userName struct {
	Username string `json:"username"`
}

type productListItem struct {
	ID          int64       `json:"id"`
	Name        string      `json:"product_name"`
	Price       int64       `json:"price"`
	Photos      []imageView `json:"product_photo"`
	AvgRating   float64     `json:"avg_rating"`
	CountPeople int         `json:"count_people"`
}

type productDetail struct {
	SubCategory subCategoryName `json:"subcategory"`
	Photos      []imageView     `json:"product_photo"`
	Name        string          `json:"product_name"`
	ProductType bool            `json:"product_type"`
	Price       int64           `json:"price"`
	AvgRating   float64         `json:"avg_rating"`
	CountPeople int             `json:"count_people"`
	Article     int64           `json:"article"`
	Description string          `json:"description"`
	Video       *string         `json:"video"`
	CreatedDate string          `json:"created_date"`
	Reviews     []reviewView    `json:"product_review"`
}

type reviewView struct {
	ID          int64    `json:"id"`
	User        userName `json:"user"`
	ProductID   int64    `json:"product_id"`
	Star        *int     `json:"star"`
	Text        string   `json:"text"`
	CreatedDate string   `json:"created_date"`
}

type categoryListItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"category_name"`
	Image string `json:"category_image"`
}

type categoryDetail struct {
	Name          string            `json:"category_name"`
	SubCategories []subCategoryName `json:"category_sub"`
}

type subCategoryListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"subcategory_name"`
}

type subCategoryDetail struct {
	Name     string            `json:"subcategory_name"`
	Products []productListItem `json:"sub_product"`
}

type cartItemView struct {
	ID         int64           `json:"id"`
	Product    productListItem `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice int64           `json:"total_price"`
}

type cartView struct {
	ID         int64          `json:"id"`
	User       int64          `json:"user"`
	Items      []cartItemView `json:"items"`
	TotalPrice int64          `json:"total_price"`
}

type registeredUser struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Age         *int    `json:"age"`
	PhoneNumber *string `json:"phone_number"`
}

func imageViews(images []models.ProductImage) []imageView {
	out := make([]imageView, len(images))
	for i, img := range images {
		out[i] = imageView{Image: mediaURL(img.Image)}
	}
	return out
}

func newProductListItem(p models.Product, stars []*int, lang string) productListItem {
	return productListItem{
		ID:          p.ID,
		Name:        p.NameTranslations.Pick(p.Name, lang),
		Price:       p.Price,
		Photos:      imageViews(p.Images),
		AvgRating:   models.AverageRating(stars),
		CountPeople: len(stars),
	}
}

func newProductDetail(p models.Product, sub models.SubCategory, reviews []models.Review, lang string) productDetail {
	return productDetail{
		SubCategory: subCategoryName{Name: sub.NameTranslations.Pick(sub.Name, lang)},
		Photos:      imageViews(p.Images),
		Name:        p.NameTranslations.Pick(p.Name, lang),
		ProductType: p.ProductType,
		Price:       p.Price,
		AvgRating:   models.AverageRating(models.ReviewStars(reviews)),
		CountPeople: models.ReviewCount(reviews),
		Article:     p.Article,
		Description: p.DescriptionTranslations.Pick(p.Description, lang),
		Video:       p.Video,
		CreatedDate: p.CreatedDate.Format(dateFormat),
		Reviews:     reviewViews(reviews),
	}
}

func newReviewView(r models.Review) reviewView {
	return reviewView{
		ID:          r.ID,
		User:        userName{Username: r.Username},
		ProductID:   r.ProductID,
		Star:        r.Star,
		Text:        r.Text,
		CreatedDate: r.CreatedDate.Format(dateFormat),
	}
}

func reviewViews(reviews []models.Review) []reviewView {
	out := make([]reviewView, len(reviews))
	for i, r := range reviews {
		out[i] = newReviewView(r)
	}
	return out
}

func newCartItemView(item models.CartItem, stars map[int64][]*int, lang string) cartItemView {
	return cartItemView{
		ID:         item.ID,
		Product:    newProductListItem(item.Product, stars[item.ProductID], lang),
		Quantity:   item.Quantity,
		TotalPrice: models.ItemTotal(item),
	}
}

func newCartView(cart models.Cart, stars map[int64][]*int, lang string) cartView {
	items := make([]cartItemView, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = newCartItemView(item, stars, lang)
	}
	return cartView{
		ID:         cart.ID,
		User:       cart.UserID,
		Items:      items,
		TotalPrice: models.CartTotal(cart.Items),
	}
}
