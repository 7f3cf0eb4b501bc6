package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

// parseProductFilter reads the listing filters. Unknown orderings are
// ignored rather than rejected.
func parseProductFilter(c *gin.Context) (store.ProductFilter, error) {
	filter := store.ProductFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if !store.ValidOrdering(filter.Ordering) {
		filter.Ordering = ""
	}

	for _, f := range []struct {
		name string
		dst  **int64
	}{
		{"category", &filter.CategoryID},
		{"subcategory", &filter.SubCategoryID},
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
	} {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("%s must be an integer", f.name)
		}
		*f.dst = &v
	}
	return filter, nil
}

func (s *Server) listProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}
	page, err := parsePage(c, productPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}
	ctx := c.Request.Context()

	var (
		result *store.OffsetPage[models.Product]
		stars  map[int64][]*int
	)
	err = database.WithTransaction(ctx, s.db, database.ReadOnlySnapshot(), func(tx *sql.Tx) error {
		var err error
		if result, err = store.ListProducts(ctx, tx, filter, page); err != nil {
			return err
		}
		stars, err = store.ReviewStarsByProduct(ctx, tx, productIDs(result.Items))
		return err
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	c.JSON(http.StatusOK, store.MapPage(result, func(p models.Product) productListItem {
		return newProductListItem(p, stars[p.ID], lang)
	}))
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		product *models.Product
		sub     *models.SubCategory
		reviews []models.Review
	)
	err := database.WithTransaction(ctx, s.db, database.ReadOnlySnapshot(), func(tx *sql.Tx) error {
		var err error
		if product, err = store.GetProduct(ctx, tx, id); err != nil {
			return err
		}
		if sub, err = store.GetSubCategory(ctx, tx, product.SubCategoryID); err != nil {
			return err
		}
		reviews, err = store.ListReviewsByProduct(ctx, tx, id)
		return err
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProductDetail(*product, *sub, reviews, s.lang(c)))
}
