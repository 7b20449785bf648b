package main

import (
	"log"
	"os"

	"firebase.google.com/go/v4/auth"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/moeedrafique/cea/internal/handlers"
	appMiddleware "github.com/moeedrafique/cea/internal/middleware"
	"github.com/moeedrafique/cea/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	var authClient *auth.Client
	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
		authClient = nil
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional; lookups just skip the cache without it
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, lookup caching disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize handlers
	memberHandler := handlers.NewMemberHandler(services.NewMemberService(db))
	renewalHandler := handlers.NewRenewalHandler(services.NewRenewalService(db))
	reviewHandler := handlers.NewReviewHandler(services.NewReviewService(db))
	feeHandler := handlers.NewFeeHandler(services.NewFeeService(db))
	lookupHandler := handlers.NewLookupHandler(db, cache)
	dashboardHandler := handlers.NewDashboardHandler(db)

	// Public routes
	e.POST("/signup", memberHandler.Signup)
	e.GET("/districts", lookupHandler.ListDistricts)
	e.GET("/districts/:id/tehsils", lookupHandler.ListTehsils)
	e.GET("/tehsils-map", lookupHandler.TehsilsMap)
	e.GET("/payment-methods", lookupHandler.ListPaymentMethods)

	// Member routes
	protected := e.Group("")
	protected.Use(appMiddleware.RequireAuth(authClient))
	protected.POST("/members/:id/renewals", renewalHandler.SubmitRenewal)
	protected.POST("/members/:id/fees", feeHandler.SubmitFee)
	protected.GET("/members/:id", memberHandler.ViewMember)

	// Admin routes
	admin := e.Group("/admin")
	admin.Use(appMiddleware.RequireAuth(authClient))
	admin.Use(appMiddleware.RequireAdmin(authClient))
	admin.GET("/dashboard", dashboardHandler.Dashboard)
	admin.GET("/members", memberHandler.ListMembers)
	admin.POST("/members/:id/approval", memberHandler.SetApproval)
	admin.POST("/members/:id/status", memberHandler.ToggleStatus)
	admin.POST("/members/:id/delete", memberHandler.DeleteMember)
	admin.GET("/requests", reviewHandler.PendingRequests)
	admin.GET("/requests/:id", reviewHandler.ViewRequest)
	admin.POST("/requests/:id", reviewHandler.ReviewRequest)
	admin.GET("/receipts/renewal/:id", renewalHandler.RenewalReceipt)
	admin.GET("/receipts/registration/:id", memberHandler.RegistrationReceipt)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
