package main

import (
	"log"
	"os"

	"gamerscove/config"
	"gamerscove/config/seed"
	_ "gamerscove/config/swagger"
	"gamerscove/logger"
	"gamerscove/middleware"
	"gamerscove/routes"
	"gamerscove/services/ai"
	"gamerscove/services/chatstate"
	"gamerscove/services/games"
	"gamerscove/services/reviews"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sashabaranov/go-openai"
)

const defaultChatModel = openai.GPT4oMini

// @title GamersCove API
// @version 1.0
// @description Gin-Gonic server for the GamersCove social gaming platform
// @BasePath /
func main() {
	godotenv.Load()

	if err := logger.Initialize(os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		logger.Log.Fatalw("error connecting to PostgreSQL", "error", err)
	}
	logger.Log.Infow("GORM connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		if err := config.MigrateDatabase(gormDB); err != nil {
			logger.Log.Warnw("database migration failed", "error", err)
		} else {
			logger.Log.Infow("database migrated")
		}
	}

	if os.Getenv("SEED_DATABASE") == "true" {
		if err := seed.Run(gormDB); err != nil {
			logger.Log.Warnw("database seeding failed", "error", err)
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Log.Fatalw("error reading GORM PostgreSQL instance", "error", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.ConnectRedis()
	if err != nil {
		logger.Log.Fatalw("error connecting to Redis", "error", err)
	}
	defer redisClient.Close()
	logger.Log.Infow("Redis connected")

	modelName := os.Getenv("OPENAI_MODEL")
	if modelName == "" {
		modelName = defaultChatModel
	}
	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))

	gameService := games.NewService(gormDB)
	reviewService := reviews.NewService(gormDB)
	agent := ai.NewAgent(client, modelName,
		ai.NewTools(gameService, reviewService),
		chatstate.NewStore(redisClient))

	r := gin.Default()
	middleware.SetUpMiddleware(r)
	routes.SetupRoutes(r, gormDB, agent)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Log.Infow("server listening", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Log.Fatalw("server stopped", "error", err)
	}
}
