package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/mahinuzzaman/pulsefeed/internal/router"
	"github.com/mahinuzzaman/pulsefeed/pkg/config"
	"github.com/mahinuzzaman/pulsefeed/pkg/firebase"
	"github.com/mahinuzzaman/pulsefeed/validators"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Federated sign-in is optional; without credentials the route reports
	// the provider as disabled.
	var firebaseAuth *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseAuth, err = firebase.InitAuthClient(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, federated sign-in disabled.")
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)

	manager, err := router.SetupRoutes(e, db.Postgres, db.Mongo.Database(cfg.MongoDatabase), firebaseAuth, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}
	defer manager.Close()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
