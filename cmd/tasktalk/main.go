package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tasktalk-dev/tasktalk/db"
	"github.com/tasktalk-dev/tasktalk/internal/auth"
	"github.com/tasktalk-dev/tasktalk/internal/llm"
	"github.com/tasktalk-dev/tasktalk/internal/router"
	"github.com/tasktalk-dev/tasktalk/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	if err := auth.InitJWT(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := llm.Init(); err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	scheduler.Initialize()
	defer scheduler.Shutdown()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
