package router

import (
	"log"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/mahinuzzaman/pulsefeed/internal/dataaccess"
	"github.com/mahinuzzaman/pulsefeed/internal/feed"
	"github.com/mahinuzzaman/pulsefeed/internal/handlers"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/mahinuzzaman/pulsefeed/internal/repositories"
	"github.com/mahinuzzaman/pulsefeed/internal/session"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes wires repositories, services, and handlers, and registers all
// routes. It returns the session manager so main can close its auth-state
// subscription at shutdown.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoDB *mongo.Database, firebaseAuth *fbauth.Client, jwtSecret string) (*session.Manager, error) {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.AuthUser{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		return nil, err
	}

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"service": "pulsefeed"})
	})

	userRepo := repositories.NewPostgresUserRepository(pgdb)
	authUserRepo := repositories.NewPostgresAuthUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	data := dataaccess.NewService(userRepo, postRepo, likeRepo, commentRepo)
	sessions := session.NewService(authUserRepo, firebaseAuth, []byte(jwtSecret))
	manager := session.NewManager(sessions, data)
	manager.Start("")
	aggregator := feed.NewAggregator(data)

	authHandler := handlers.NewAuthHandler(manager)
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(sessions))
	authHandler.RegisterSessionRoutes(api)

	handlers.NewFeedHandler(aggregator).RegisterFeedRoutes(api)
	handlers.NewPostHandler(data).RegisterPostRoutes(api)
	handlers.NewLikeHandler(aggregator, data).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(aggregator, data).RegisterCommentRoutes(api)
	handlers.NewUserHandler(aggregator, data).RegisterProfileRoutes(api)

	log.Println("All routes configured.")
	return manager, nil
}
