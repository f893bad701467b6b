package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"marketplace/client/internal/config"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/middleware"
	"marketplace/client/internal/sandbox/repository"
	"marketplace/client/internal/sandbox/service"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	products *service.ProductService
	uploads  *service.UploadService
	maxBytes int64
	gatherer prometheus.Gatherer
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, gatherer prometheus.Gatherer) HandlerSet {
	users := repository.NewUserRepository()
	products := repository.NewProductRepository()
	media := repository.NewMediaRepository()

	v := validator.New(validator.Rules{
		MaxBytes:       cfg.Upload.MaxBytes,
		AllowedTypes:   cfg.Upload.AllowedTypes,
		CheckExtension: true,
		SniffContent:   true,
	})

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     service.NewAuthService(users, cfg.Sandbox, log),
		products: service.NewProductService(products, media, log),
		uploads:  service.NewUploadService(media, products, users, v, cfg.Sandbox.PublicBaseURL, log),
		maxBytes: v.MaxFileSize(),
		gatherer: gatherer,
	}
}

// Register mounts the API routes on router, normally the /api group.
func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authed := middleware.Auth(h.cfg.Sandbox.JWTSecret)
	sellerOnly := middleware.RequireRoles(models.UserRoleSeller)

	auth := router.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.RegisterUser)

	products := router.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/search", h.SearchProducts)
	products.GET("/user/:userId", h.ListProductsByUser)
	products.GET("/:id", h.GetProduct)
	products.POST("", authed, sellerOnly, h.CreateProduct)
	products.PUT("/:id", authed, h.UpdateProduct)
	products.DELETE("/:id", authed, h.DeleteProduct)

	media := router.Group("/media")
	media.GET("/product/:productId", h.ListMedia)
	media.GET("/:id", h.GetMedia)
	media.GET("/:id/download", h.DownloadMedia)
	media.POST("/upload", authed, sellerOnly, h.UploadMedia)
	media.DELETE("/:id", authed, h.DeleteMedia)

	users := router.Group("/users")
	users.POST("/:id/avatar", authed, h.UploadAvatar)
	users.GET("/:id/avatar", h.GetAvatar)
}

// RegisterPublic mounts the file server behind the public base URL and the
// metrics endpoint.
func (h HandlerSet) RegisterPublic(engine *gin.Engine, filesPrefix string) {
	engine.GET(filesPrefix+"/:id", h.DownloadMedia)
	if h.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}
