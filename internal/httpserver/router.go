package httpserver

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"secondhand-marketplace/internal/domain"
	authsvc "secondhand-marketplace/internal/service/auth"
	cartsvc "secondhand-marketplace/internal/service/cart"
	dashboardsvc "secondhand-marketplace/internal/service/dashboard"
	productsvc "secondhand-marketplace/internal/service/product"
)

type authService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*authsvc.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	LogoutAll(ctx context.Context, token string) error
}

type dashboardService interface {
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in dashboardsvc.ProfileUpdate) (*domain.User, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Search(ctx context.Context, keyword, category string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error)
	Create(ctx context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, sellerID, id int64, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, sellerID, id int64) error
	Categories(ctx context.Context) ([]string, error)
	Conditions() []string
}

type cartService interface {
	Add(ctx context.Context, userID int64, in cartsvc.AddInput) (*domain.CartLine, error)
	Items(ctx context.Context, userID int64) (*cartsvc.Summary, error)
	Update(ctx context.Context, userID, lineID int64, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, userID, lineID int64) error
	Clear(ctx context.Context, userID int64) error
	Count(ctx context.Context, userID int64) (int, error)
}

type purchaseService interface {
	Checkout(ctx context.Context, userID int64) (*domain.Purchase, error)
	History(ctx context.Context, userID int64) ([]domain.Purchase, error)
	Get(ctx context.Context, userID, purchaseID int64) (*domain.Purchase, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	AuthSvc      authService
	DashboardSvc dashboardService
	ProductSvc   productService
	CartSvc      cartService
	PurchaseSvc  purchaseService
	// StaticDir, when set, is served at / for the storefront pages.
	StaticDir string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.CustomRecoveryWithWriter(logger.Writer(), recoveryHandler),
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps}
	requireAuth := authMiddleware(deps.AuthSvc)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/logout", requireAuth, h.logout)
	authGroup.POST("/logout-all", requireAuth, h.logoutAll)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.GET("/profile", h.getProfile)
	dashboard.PUT("/profile", h.updateProfile)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/categories", h.listCategories)
	products.GET("/conditions", h.listConditions)
	products.GET("/search", h.searchProducts)
	products.GET("/category/:category", h.listProductsByCategory)
	products.GET("/user/:sellerId", h.listSellerProducts)
	products.GET("/:id", h.getProduct)
	products.POST("", requireAuth, h.createProduct)
	products.PUT("/:id", requireAuth, h.updateProduct)
	products.DELETE("/:id", requireAuth, h.deleteProduct)

	cart := api.Group("/cart", requireAuth)
	cart.POST("/add", h.addToCart)
	cart.GET("/items/:userId", h.cartItems)
	cart.PUT("/update/:cartItemId", h.updateCartItem)
	cart.DELETE("/remove/:cartItemId", h.removeCartItem)
	cart.DELETE("/clear/:userId", h.clearCart)
	cart.GET("/count/:userId", h.cartCount)

	purchases := api.Group("/purchases", requireAuth)
	purchases.POST("/checkout/:userId", h.checkout)
	purchases.GET("/history/:userId", h.purchaseHistory)
	purchases.GET("/:id", h.getPurchase)

	if deps.StaticDir != "" {
		if err := mountStatic(router, deps.StaticDir); err != nil {
			return nil, err
		}
	}

	return router, nil
}

// mountStatic serves the storefront pages without authentication.
func mountStatic(router *gin.Engine, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "static", Path: dir, Err: os.ErrInvalid}
	}
	router.Static("/static", dir)
	index := filepath.Join(dir, "index.html")
	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			writeError(c, domain.Errorf(domain.ErrNotFound, "route not found"))
			return
		}
		page := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if _, err := os.Stat(page); err == nil {
			c.File(page)
			return
		}
		c.File(index)
	})
	return nil
}

type handlers struct {
	deps Deps
}
