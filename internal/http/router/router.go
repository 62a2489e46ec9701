package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickgrab/backend/internal/config"
	"github.com/quickgrab/backend/internal/http/handlers"
	"github.com/quickgrab/backend/internal/http/middleware"
	"github.com/quickgrab/backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	itemHandler *handlers.ItemHandler,
	searchHandler *handlers.SearchHandler,
	transactionHandler *handlers.TransactionHandler,
	messageHandler *handlers.MessageHandler,
	disputeHandler *handlers.DisputeHandler,
	ratingHandler *handlers.RatingHandler,
	mediaHandler *handlers.MediaHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/uploads", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-otp", authHandler.ResendOTP)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.POST("/verify-id", authHandler.VerifyID)
	}

	// Публичные маршруты
	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", middleware.UUIDValidator("id"), itemHandler.Get)
	api.POST("/search", searchHandler.Search)
	api.GET("/users/:id", middleware.UUIDValidator("id"), profileHandler.GetPublic)
	api.GET("/users/:id/ratings", middleware.UUIDValidator("id"), ratingHandler.ListByUser)
	api.POST("/items/price-check", itemHandler.CheckPrice)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/users/me", profileHandler.GetMe)

		protected.POST("/items", itemHandler.Create)
		protected.PUT("/items/:id", middleware.UUIDValidator("id"), itemHandler.Update)
		protected.DELETE("/items/:id", middleware.UUIDValidator("id"), itemHandler.Delete)

		protected.POST("/transactions/request", transactionHandler.Request)
		protected.GET("/transactions", transactionHandler.List)
		protected.GET("/transactions/:id", middleware.UUIDValidator("id"), transactionHandler.Get)
		protected.POST("/transactions/:id/accept", middleware.UUIDValidator("id"), transactionHandler.Accept)
		protected.POST("/transactions/:id/pay", middleware.UUIDValidator("id"), transactionHandler.Pay)
		protected.POST("/transactions/:id/meet", middleware.UUIDValidator("id"), transactionHandler.StartMeeting)
		protected.POST("/transactions/:id/confirm", middleware.UUIDValidator("id"), transactionHandler.Confirm)
		protected.POST("/transactions/:id/refund", middleware.UUIDValidator("id"), transactionHandler.Refund)

		protected.GET("/transactions/:id/messages", middleware.UUIDValidator("id"), messageHandler.List)
		protected.POST("/transactions/:id/messages", middleware.UUIDValidator("id"), messageHandler.Send)
		protected.POST("/transactions/:id/meetup-suggestions", middleware.UUIDValidator("id"), messageHandler.SuggestMeetup)

		protected.POST("/disputes", disputeHandler.Open)
		protected.GET("/disputes", disputeHandler.List)

		protected.POST("/ratings", ratingHandler.Create)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
	}

	return r
}
