package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/openquill/inkwell/backend/internal/discovery"
	"github.com/openquill/inkwell/backend/internal/engagement"
	"github.com/openquill/inkwell/backend/internal/handlers"
	"github.com/openquill/inkwell/backend/internal/middleware"
	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
	"github.com/openquill/inkwell/backend/pkg/search"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDBName string, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.Category{},
		&models.PostCategory{},
		&models.SavedPost{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(mongoDBName))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	categoryRepo := repositories.NewPostgresCategoryRepository(pgdb)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Full-text index, seeded from the published posts ---
	searchIndex, err := search.NewMemoryIndex()
	if err != nil {
		log.Fatalf("Failed to create search index: %v", err)
	}
	if posts, err := postRepo.GetPublishedPosts(context.Background()); err != nil {
		// Discovery degrades to facet-only filtering until posts get reindexed.
		log.Printf("Could not seed search index: %v", err)
	} else if err := searchIndex.Rebuild(posts); err != nil {
		log.Printf("Could not seed search index: %v", err)
	} else {
		log.Printf("Search index seeded with %d published posts.", len(posts))
	}

	// --- Core components ---
	resolver := discovery.NewResolver(postRepo, categoryRepo, searchIndex)
	facets := discovery.NewFacetStore(categoryRepo, userRepo)
	ledger := engagement.NewLedger(likeRepo, postRepo, commentRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public routes (anonymous readers; JWT parsed when present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTMiddleware())

	discoveryHandler := handlers.NewDiscoveryHandler(resolver, facets, postRepo, userRepo, categoryRepo, ledger)
	discoveryHandler.RegisterDiscoveryRoutes(public)
	log.Println("Discovery routes configured.")

	engagementHandler := handlers.NewEngagementHandler(ledger, postRepo, userRepo, notificationRepo)
	engagementHandler.RegisterPublicEngagementRoutes(public)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo)
	commentHandler.RegisterPublicCommentRoutes(public)

	userHandler := handlers.NewUserHandler(userRepo, postRepo)
	userHandler.RegisterPublicProfileRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to protected routes.")

	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, categoryRepo, followRepo, notificationRepo, searchIndex)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	engagementHandler.RegisterEngagementRoutes(api)
	log.Println("Engagement routes configured.")

	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, postRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Bookmark routes configured.")

	followHandler := handlers.NewFollowHandler(followRepo, userRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
