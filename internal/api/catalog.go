package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

func (s *Server) listCategories(c *gin.Context) {
	page, err := parsePage(c, categoryPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}

	result, err := store.ListCategories(c.Request.Context(), s.db, page)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	c.JSON(http.StatusOK, store.MapPage(result, func(cat models.Category) categoryListItem {
		return categoryListItem{
			ID:    cat.ID,
			Name:  cat.NameTranslations.Pick(cat.Name, lang),
			Image: mediaURL(cat.Image),
		}
	}))
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	category, err := store.GetCategory(ctx, s.db, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	subs, err := store.ListSubCategoriesByCategory(ctx, s.db, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	view := categoryDetail{
		Name:          category.NameTranslations.Pick(category.Name, lang),
		SubCategories: make([]subCategoryName, len(subs)),
	}
	for i, sub := range subs {
		view.SubCategories[i] = subCategoryName{Name: sub.NameTranslations.Pick(sub.Name, lang)}
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) listSubCategories(c *gin.Context) {
	page, err := parsePage(c, subCategoryPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}

	result, err := store.ListSubCategories(c.Request.Context(), s.db, page)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	c.JSON(http.StatusOK, store.MapPage(result, func(sub models.SubCategory) subCategoryListItem {
		return subCategoryListItem{ID: sub.ID, Name: sub.NameTranslations.Pick(sub.Name, lang)}
	}))
}

func (s *Server) getSubCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		sub      *models.SubCategory
		products []models.Product
		stars    map[int64][]*int
	)
	err := database.WithTransaction(ctx, s.db, database.ReadOnlySnapshot(), func(tx *sql.Tx) error {
		var err error
		if sub, err = store.GetSubCategory(ctx, tx, id); err != nil {
			return err
		}
		if products, err = store.ListProductsBySubCategory(ctx, tx, id); err != nil {
			return err
		}
		stars, err = store.ReviewStarsByProduct(ctx, tx, productIDs(products))
		return err
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	view := subCategoryDetail{
		Name:     sub.NameTranslations.Pick(sub.Name, lang),
		Products: make([]productListItem, len(products)),
	}
	for i, p := range products {
		view.Products[i] = newProductListItem(p, stars[p.ID], lang)
	}
	c.JSON(http.StatusOK, view)
}

func productIDs(products []models.Product) []int64 {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
