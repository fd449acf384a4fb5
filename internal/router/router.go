package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/config"
	"go-shop-api/internal/handler"
	"go-shop-api/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Media   *handler.MediaHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Server is up and running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.With(middleware.StreamingTimeout(2*cfg.RequestTimeout, cfg.RequestTimeout)).
		Get("/media/{key}", h.Media.Serve)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.Timeout(cfg.RequestTimeout))
		admin.Post("/enter", h.Auth.Enter)
	})

	r.Route("/products", func(products chi.Router) {
		products.Use(middleware.Timeout(cfg.RequestTimeout))

		products.Get("/", h.Product.List)
		products.Get("/{productID}", h.Product.Get)
		products.With(authMiddleware.RequireAdmin).Post("/add-product", h.Product.Add)
		products.With(authMiddleware.RequireAdmin).Put("/{productID}", h.Product.Update)
		products.With(authMiddleware.RequireAdmin).Delete("/{productID}", h.Product.Delete)
	})

	r.Route("/cart", func(cart chi.Router) {
		cart.Use(middleware.Timeout(cfg.RequestTimeout))
		cart.Use(middleware.RequireUserID)

		cart.Get("/", h.Cart.Get)
		cart.Post("/", h.Cart.Update)
		cart.Delete("/{productID}", h.Cart.RemoveItem)
	})

	return r
}
