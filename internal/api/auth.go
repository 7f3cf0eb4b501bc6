package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/store"
)

type registerRequest struct {
	Username    string  `json:"username" binding:"required,max=150"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Password    string  `json:"password" binding:"required,max=72"`
	Age         *int    `json:"age" binding:"omitempty,min=16,max=70"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,e164"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type loginResponse struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errRefreshMissing     = errors.New("refresh token not provided")
	errRefreshInvalid     = errors.New("invalid token")
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	user, err := store.CreateUser(c.Request.Context(), s.db, store.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Age:          req.Age,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	s.log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, registeredUser{
		Username:    user.Username,
		Email:       user.Email,
		Age:         user.Age,
		PhoneNumber: user.PhoneNumber,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnauthorized, codeInvalidCredentials, errInvalidCredentials)
		return
	}

	user, err := store.GetUserByUsername(c.Request.Context(), s.db, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, codeInvalidCredentials, errInvalidCredentials)
			return
		}
		s.writeStoreError(c, err)
		return
	}
	if !user.IsActive || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		respondError(c, http.StatusUnauthorized, codeInvalidCredentials, errInvalidCredentials)
		return
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	var resp loginResponse
	resp.User.Username = user.Username
	resp.User.Email = user.Email
	resp.Access = pair.Access
	resp.Refresh = pair.Refresh
	c.JSON(http.StatusOK, resp)
}

// logout blacklists the given refresh token. It needs no access token, so a
// client whose access token already expired can still sign out.
func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.Refresh == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, errRefreshMissing)
		return
	}

	if err := s.tokens.Revoke(c.Request.Context(), req.Refresh); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrWrongTokenType) {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, errRefreshInvalid)
			return
		}
		s.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail{Detail: "successfully logged out"})
}

func (s *Server) refreshToken(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.Refresh == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, errRefreshMissing)
		return
	}

	access, err := s.tokens.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}
