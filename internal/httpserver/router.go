package httpserver

import (
	"context"
	"errors"
	"log"

	"herbstore/internal/domain"
	"herbstore/internal/service/catalog"
	customersvc "herbstore/internal/service/customer"
	"herbstore/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService is the product browsing surface the handlers need.
type CatalogService interface {
	List(ctx context.Context, q catalog.ListQuery) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Related(ctx context.Context, id string) ([]domain.Product, error)
}

// CustomerService is the auth surface the handlers need.
type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	Logout(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

// Deps carries the services the router depends on.
type Deps struct {
	CatalogSvc  CatalogService
	CustomerSvc CustomerService
	Sessions    *session.Registry
}

func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.CustomerSvc == nil || deps.Sessions == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/categories", listCategoriesHandler)
	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	router.GET("/products/:id/related", relatedProductsHandler(deps.CatalogSvc))

	withSession := router.Group("", sessionMiddleware(deps.Sessions), identityMiddleware(deps.CustomerSvc))

	withSession.POST("/auth/signup", signupHandler(deps.CustomerSvc))
	withSession.POST("/auth/login", loginHandler(deps.CustomerSvc))
	withSession.POST("/auth/logout", logoutHandler(deps.CustomerSvc))

	withSession.GET("/cart", getCartHandler)
	withSession.POST("/cart/items", addCartItemHandler(deps.CatalogSvc))
	withSession.PATCH("/cart/items", updateCartItemHandler)
	withSession.DELETE("/cart/items/:productId/:size", removeCartItemHandler)
	withSession.DELETE("/cart", clearCartHandler)
	withSession.POST("/checkout", checkoutHandler)

	return router, nil
}
