package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type profileRequest struct {
	Username    string  `json:"username" binding:"required,max=150"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Age         *int    `json:"age" binding:"omitempty,min=16,max=70"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,e164"`
}

// profileTarget resolves the user a /user/ request acts on. Ids other than
// the requester's own are reported as missing.
func profileTarget(c *gin.Context) (int64, bool) {
	self := currentUserID(c)
	if c.Param("id") == "" {
		return self, true
	}
	id, ok := pathID(c)
	if !ok {
		return 0, false
	}
	if id != self {
		respondError(c, http.StatusNotFound, codeNotFound, errNotFound)
		return 0, false
	}
	return id, true
}

func (s *Server) listProfile(c *gin.Context) {
	user, err := store.GetUser(c.Request.Context(), s.db, currentUserID(c))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, []models.User{*user})
}

func (s *Server) getProfile(c *gin.Context) {
	id, ok := profileTarget(c)
	if !ok {
		return
	}
	user, err := store.GetUser(c.Request.Context(), s.db, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateProfile(c *gin.Context) {
	id, ok := profileTarget(c)
	if !ok {
		return
	}
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := store.UpdateUser(c.Request.Context(), s.db, id, store.UserUpdate{
		Username:    req.Username,
		Email:       req.Email,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteProfile(c *gin.Context) {
	id, ok := profileTarget(c)
	if !ok {
		return
	}
	if err := store.DeleteUser(c.Request.Context(), s.db, id); err != nil {
		s.writeStoreError(c, err)
		return
	}
	s.log.Info("user deleted", "user_id", id)
	c.Status(http.StatusNoContent)
}
