package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/samecityapp/yeriniayirV1-sub002/db"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/handler"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/repository"
)

// redisQueue adapts the shared Redis helpers to the handler's queue
// interface.
type redisQueue struct{}

func (redisQueue) Enqueue(job model.RegenerateJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return db.PushToQueue(db.RegenerateQueueKey, string(payload))
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	guideRepo := repository.NewGuideRepository(db.DB)
	guideHandler := handler.NewGuideHandler(guideRepo, redisQueue{})

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/guides", guideHandler.GetFeed)
	r.GET("/guides/:slug", guideHandler.GetGuide)
	r.POST("/guides/:slug/regenerate", guideHandler.Regenerate)
	r.GET("/health", guideHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
