package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type cartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity" binding:"omitempty,min=1,max=2147483647"`
}

type cartItemUpdateRequest struct {
	ProductID *int64 `json:"product_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=2147483647"`
}

// itemStars fetches the review stars of every product referenced by items.
func (s *Server) itemStars(ctx context.Context, items []models.CartItem) (map[int64][]*int, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return store.ReviewStarsByProduct(ctx, s.db, ids)
}

func (s *Server) getCart(c *gin.Context) {
	ctx := c.Request.Context()

	cart, err := store.LoadCart(ctx, s.db, currentUserID(c))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	stars, err := s.itemStars(ctx, cart.Items)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(*cart, stars, s.lang(c)))
}

func (s *Server) listCartItems(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := store.ListCartItems(ctx, s.db, currentUserID(c))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	stars, err := s.itemStars(ctx, items)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	lang := s.lang(c)
	views := make([]cartItemView, len(items))
	for i, item := range items {
		views[i] = newCartItemView(item, stars, lang)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := store.GetCartItem(c.Request.Context(), s.db, currentUserID(c), id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	s.writeCartItem(c, http.StatusOK, item)
}

func (s *Server) createCartItem(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	quantity := models.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := store.CreateCartItem(c.Request.Context(), s.db, currentUserID(c), req.ProductID, quantity)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	s.writeCartItem(c, http.StatusCreated, item)
}

func (s *Server) updateCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req cartItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := store.UpdateCartItem(c.Request.Context(), s.db, currentUserID(c), id, req.ProductID, req.Quantity)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	s.writeCartItem(c, http.StatusOK, item)
}

func (s *Server) deleteCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := store.DeleteCartItem(c.Request.Context(), s.db, currentUserID(c), id); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) writeCartItem(c *gin.Context, status int, item *models.CartItem) {
	stars, err := s.itemStars(c.Request.Context(), []models.CartItem{*item})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(status, newCartItemView(*item, stars, s.lang(c)))
}
