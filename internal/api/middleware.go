package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logger"
	"github.com/safar/go-storefront/internal/store"
)

const (
	ctxUserID = "user_id"
	ctxLang   = "lang"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id, ok := c.Get(ctxUserID); ok {
			fields = append(fields, "user_id", id)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

var errInactiveUser = errors.New("user not found or inactive")

// RequireAuth accepts only a valid access token in the Authorization header
// whose user still exists and is active.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, codeUnauthorized, errors.New("authentication credentials were not provided"))
			return
		}
		claims, err := s.tokens.ParseAccess(token)
		if err != nil {
			s.log.Debug("rejected access token", "error", err)
			respondError(c, http.StatusUnauthorized, codeUnauthorized, errors.New("token is invalid or expired"))
			return
		}
		if s.db != nil {
			user, err := store.GetUser(c.Request.Context(), s.db, claims.UserID)
			switch {
			case errors.Is(err, database.ErrUserNotFound):
				respondError(c, http.StatusUnauthorized, codeUnauthorized, errInactiveUser)
				return
			case err != nil:
				s.writeStoreError(c, err)
				return
			case !user.IsActive:
				respondError(c, http.StatusUnauthorized, codeUnauthorized, errInactiveUser)
				return
			}
		}
		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// Language resolves the response language once per request.
func (s *Server) Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxLang, s.langs.Match(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func (s *Server) lang(c *gin.Context) string {
	if l := c.GetString(ctxLang); l != "" {
		return l
	}
	return s.langs.Default()
}
