package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Check for migrate command
	migrateCmd := flag.Bool("migrate", false, "Run database migration")
	seedDemoCmd := flag.Bool("seed-demo", false, "Seed a demo user with ledger data (idempotent)")
	verifyCmd := flag.Bool("verify-db", false, "Verify the database connection and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if *migrateCmd {
		if err := setupDatabase(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
		os.Exit(0)
	}
	if *verifyCmd {
		if err := verifyDatabaseConnection(); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		os.Exit(0)
	}
	if *seedDemoCmd {
		if err := initDB(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := seedDemoData(db); err != nil {
			log.Fatalf("Seeding demo data failed: %v", err)
		}
		log.Println("Demo data seeded")
		os.Exit(0)
	}

	// Initialize database
	if err := initDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize the session store; fall back to in-process sessions when
	// Redis is unreachable (sessions then die with the server)
	if err := initRedis(); err != nil {
		log.Printf("Warning: Failed to initialize Redis: %v", err)
		log.Println("Continuing with in-memory sessions...")
		sessions = newMemorySessionStore()
	} else {
		sessions = &redisSessionStore{client: redisClient}
	}

	textGen = newGeminiClient()
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("Warning: GEMINI_API_KEY not set, chat replies will carry an error transcript entry")
	}

	// Setup Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	r.GET("/health", healthCheck)

	r.POST("/api/register", register)
	r.POST("/api/login", login)
	r.POST("/api/logout", logout)

	r.GET("/api/dashboard", getDashboard)

	r.POST("/api/income", addIncome)
	r.DELETE("/api/income/:id", deleteLedgerEntry("income"))
	r.DELETE("/api/income", clearLedger("income"))

	r.POST("/api/expense", addExpense)
	r.DELETE("/api/expense/:id", deleteLedgerEntry("expense"))
	r.DELETE("/api/expense", clearLedger("expense"))

	r.POST("/api/savings", addSaving)
	r.DELETE("/api/savings/:id", deleteLedgerEntry("savings"))
	r.DELETE("/api/savings", clearLedger("savings"))

	r.POST("/api/budget", setBudget)

	r.GET("/api/profile", getProfile)
	r.PUT("/api/profile", updateProfile)

	r.GET("/api/chat", getChat)
	r.POST("/api/chat", postChat)
	r.DELETE("/api/chat/:id", deleteChatThread)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
