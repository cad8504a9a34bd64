package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/router"
	"github.com/openquill/inkwell/backend/pkg/config"
	"github.com/openquill/inkwell/backend/pkg/firebase"
	"github.com/openquill/inkwell/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase. Optional: without credentials only local JWT auth works.
	ctx := context.Background()
	var firebaseApp *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	} else {
		log.Println("No Firebase credentials configured, Firebase login disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if firebaseApp != nil {
		router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDBName, firebaseApp.AuthClient)
	} else {
		router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDBName, nil)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
