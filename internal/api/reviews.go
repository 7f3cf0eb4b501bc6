package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type reviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Star      *int   `json:"star" binding:"omitempty,min=1,max=5"`
	Text      string `json:"text"`
}

type reviewUpdateRequest struct {
	Star *int   `json:"star" binding:"omitempty,min=1,max=5"`
	Text string `json:"text"`
}

type reviewPage struct {
	Items      []reviewView `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

var errBadCursor = errors.New("invalid cursor")

func starOrDefault(star *int) *int {
	if star != nil {
		return star
	}
	v := models.DefaultStar
	return &v
}

func (s *Server) listReviews(c *gin.Context) {
	cursor, err := store.DecodeCursor(c.Query("cursor"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, errBadCursor)
		return
	}
	limit := maxPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxPageSize)
	}

	page, err := store.ListReviews(c.Request.Context(), s.db, cursor, limit)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewPage{
		Items:      reviewViews(page.Items),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

func (s *Server) getReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := store.GetReview(c.Request.Context(), s.db, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewView(*review))
}

func (s *Server) createReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := store.CreateReview(c.Request.Context(), s.db,
		currentUserID(c), req.ProductID, starOrDefault(req.Star), req.Text)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReviewView(*review))
}

func (s *Server) updateReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reviewUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := store.UpdateReview(c.Request.Context(), s.db,
		currentUserID(c), id, starOrDefault(req.Star), req.Text)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewView(*review))
}

func (s *Server) deleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := store.DeleteReview(c.Request.Context(), s.db, currentUserID(c), id); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
