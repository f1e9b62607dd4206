// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/handlers"
	"catalogue-backend/internal/middleware"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(db, cfg, notificationService)
	listingService := services.NewListingService(db, cfg)
	categoryService := services.NewCategoryService(db, cfg)
	blogService := services.NewBlogService(db, cfg, notificationService)
	feedbackService := services.NewFeedbackService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	listingHandler := handlers.NewListingHandler(listingService, cfg)
	categoryHandler := handlers.NewCategoryHandler(categoryService, cfg)
	blogHandler := handlers.NewBlogHandler(blogService, cfg)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cfg)
	uploadHandler := handlers.NewUploadHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.SanitizeInput())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify/:user_id/:token", authHandler.VerifyEmail)

			protected := auth.Group("")
			protected.Use(middleware.AuthRequired(db))
			{
				protected.GET("/profile", authHandler.GetProfile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Listing routes
		listings := v1.Group("/listings")
		{
			listings.GET("", listingHandler.GetListings)
			listings.GET("/latest", listingHandler.GetLatestListings)
			listings.GET("/:id", listingHandler.GetListing)

			// Write routes accept anonymous callers so the configured
			// anonymous-write policy can answer them.
			writes := listings.Group("")
			writes.Use(middleware.OptionalAuth(db))
			{
				writes.POST("", listingHandler.CreateListing)
				writes.PUT("/:id", listingHandler.UpdateListing)
				writes.POST("/:id/publish", listingHandler.PublishListing)
				writes.DELETE("/:id", listingHandler.DeleteListing)
			}
		}

		// Moderation routes
		moderation := v1.Group("/moderation")
		moderation.Use(middleware.AuthRequired(db))
		{
			moderation.GET("/listings", listingHandler.GetModerationQueue)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)

			protected := categories.Group("")
			protected.Use(middleware.AuthRequired(db))
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.PUT("/:id", categoryHandler.UpdateCategory)
				protected.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Blog routes
		blogs := v1.Group("/blogs")
		{
			blogs.GET("", blogHandler.GetBlogs)
			blogs.GET("/:id", blogHandler.GetBlog)

			writes := blogs.Group("")
			writes.Use(middleware.OptionalAuth(db))
			{
				writes.POST("", blogHandler.CreateBlog)
				writes.PUT("/:id", blogHandler.UpdateBlog)
				writes.DELETE("/:id", blogHandler.DeleteBlog)
			}
		}

		// Feedback routes
		feedback := v1.Group("/feedback")
		{
			feedback.POST("", feedbackHandler.SubmitFeedback)
			feedback.GET("", middleware.AuthRequired(db), middleware.StaffRequired(), feedbackHandler.GetFeedback)
		}

		// Upload routes
		uploads := v1.Group("/uploads")
		uploads.Use(middleware.AuthRequired(db), middleware.UploadRateLimit())
		{
			uploads.POST("/:category", uploadHandler.UploadImage)
		}
	}

	return r, nil
}
