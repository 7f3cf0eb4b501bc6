package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/database"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

const (
	codeInvalidRequest     = "invalid_request"
	codeUnauthorized       = "unauthorized"
	codeInvalidCredentials = "invalid_credentials"
	codeForbidden          = "forbidden"
	codeNotFound           = "not_found"
	codeConflict           = "conflict"
	codeInvalidReference   = "invalid_reference"
	codeInternal           = "internal"
)

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

type detail struct {
	Detail string `json:"detail"`
}

// writeStoreError maps store and auth errors onto HTTP responses. Anything
// unrecognised is logged and reported as 500 without its message.
func (s *Server) writeStoreError(c *gin.Context, err error) {
	if name := database.ConstraintName(err); name != "" {
		s.log.Debug("constraint violated", "path", c.FullPath(), "constraint", name)
	}

	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrCategoryNotFound),
		errors.Is(err, database.ErrSubCategoryNotFound),
		errors.Is(err, database.ErrReviewNotFound),
		errors.Is(err, database.ErrCartItemNotFound),
		errors.Is(err, database.ErrInvalidPage):
		respondError(c, http.StatusNotFound, codeNotFound, err)
	case errors.Is(err, database.ErrProductNotFound):
		// Path lookups of a product are 404; a product referenced from a body
		// is a bad reference.
		if c.Request.Method == http.MethodGet {
			respondError(c, http.StatusNotFound, codeNotFound, err)
		} else {
			respondError(c, http.StatusBadRequest, codeInvalidReference, err)
		}
	case errors.Is(err, database.ErrNotOwner):
		respondError(c, http.StatusForbidden, codeForbidden, err)
	case errors.Is(err, database.ErrUsernameTaken):
		respondError(c, http.StatusBadRequest, codeConflict, err)
	case database.IsUniqueViolation(err):
		respondError(c, http.StatusBadRequest, codeConflict, errors.New("already exists"))
	case database.IsForeignKeyViolation(err):
		respondError(c, http.StatusBadRequest, codeInvalidReference, errors.New("referenced object does not exist"))
	case database.IsCheckViolation(err):
		respondError(c, http.StatusBadRequest, codeInvalidRequest, errors.New("value out of range"))
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrTokenBlacklisted):
		respondError(c, http.StatusUnauthorized, codeUnauthorized, err)
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, codeInternal, errors.New("internal server error"))
	}
}
