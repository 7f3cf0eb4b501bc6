package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/store"
)

const (
	productPageSize     = 3
	subCategoryPageSize = 4
	categoryPageSize    = 2
	maxPageSize         = 10

	// maxPage keeps (page-1)*page_size far from overflowing OFFSET.
	maxPage = math.MaxInt32
)

var errBadPage = errors.New("page and page_size must be positive integers")

// parsePage reads ?page= and ?page_size=. Sizes above the maximum are clamped.
func parsePage(c *gin.Context, defaultSize int) (store.PageRequest, error) {
	req := store.PageRequest{Page: 1, PageSize: defaultSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > maxPage {
			return req, errBadPage
		}
		req.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return req, errBadPage
		}
		req.PageSize = min(size, maxPageSize)
	}
	return req, nil
}
