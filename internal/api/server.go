// Package api exposes the storefront over HTTP.
package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/i18n"
	"github.com/safar/go-storefront/internal/logger"
)

type Deps struct {
	DB          *sql.DB
	Log         *logger.Logger
	Tokens      *auth.Manager
	Langs       *i18n.Negotiator
	Server      config.ServerConfig
	ServiceName string
}

type Server struct {
	db          *sql.DB
	log         *logger.Logger
	tokens      *auth.Manager
	langs       *i18n.Negotiator
	cfg         config.ServerConfig
	serviceName string
}

func NewServer(d Deps) *Server {
	return &Server{
		db:          d.DB,
		log:         d.Log.With("component", "api"),
		tokens:      d.Tokens,
		langs:       d.Langs,
		cfg:         d.Server,
		serviceName: d.ServiceName,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.serviceName != "" {
		r.Use(otelgin.Middleware(s.serviceName))
	}
	r.Use(RequestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(s.Language())

	r.GET("/healthcheck", s.healthcheck)
	if s.cfg.MediaRoot != "" {
		r.Static("/media", s.cfg.MediaRoot)
	}

	r.POST("/register/", s.register)
	r.POST("/login/", s.login)
	r.POST("/logout/", s.logout)
	r.POST("/api/token/refresh/", s.refreshToken)

	r.GET("/category/", s.listCategories)
	r.GET("/category/:id/", s.getCategory)
	r.GET("/sub_category/", s.listSubCategories)
	r.GET("/sub_category/:id/", s.getSubCategory)

	authed := r.Group("/", s.RequireAuth())
	{
		authed.GET("/product/", s.listProducts)
		authed.GET("/product/:id/", s.getProduct)

		authed.GET("/review/", s.listReviews)
		authed.POST("/review/", s.createReview)
		authed.GET("/review/:id/", s.getReview)
		authed.PUT("/review/:id/", s.updateReview)
		authed.DELETE("/review/:id/", s.deleteReview)

		authed.GET("/cart/", s.getCart)
		authed.GET("/cart_items/", s.listCartItems)
		authed.POST("/cart_items/", s.createCartItem)
		authed.GET("/cart_items/:id/", s.getCartItem)
		authed.PUT("/cart_items/:id/", s.updateCartItem)
		authed.DELETE("/cart_items/:id/", s.deleteCartItem)

		authed.GET("/user/", s.listProfile)
		authed.PUT("/user/", s.updateProfile)
		authed.DELETE("/user/", s.deleteProfile)
		authed.GET("/user/:id/", s.getProfile)
		authed.PUT("/user/:id/", s.updateProfile)
		authed.DELETE("/user/:id/", s.deleteProfile)
	}

	return r
}

var errNotFound = errors.New("not found")

func (s *Server) healthcheck(c *gin.Context) {
	if s.db != nil {
		if err := database.Ping(c.Request.Context(), s.db); err != nil {
			s.log.Warn("healthcheck: database unreachable", "error", err)
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

// pathID parses :id. A non-numeric id cannot match anything, so it is a 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusNotFound, codeNotFound, errNotFound)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return false
	}
	return true
}
