package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/samecityapp/yeriniayirV1-sub002/db"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/pipeline"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/publisher"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/repository"
	"github.com/samecityapp/yeriniayirV1-sub002/internal/topic"
	"github.com/samecityapp/yeriniayirV1-sub002/pkg/imagen"
	"github.com/samecityapp/yeriniayirV1-sub002/pkg/llm"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var writer llm.GuideWriter
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		writer = llm.NewOpenAIClient(key)
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		writer = llm.NewAnthropicClient(key)
	} else {
		log.Fatalf("OPENAI_API_KEY or ANTHROPIC_API_KEY must be set")
	}

	imagenEndpoint := os.Getenv("IMAGEN_ENDPOINT")
	imagenKey := os.Getenv("IMAGEN_API_KEY")
	if imagenEndpoint == "" || imagenKey == "" {
		log.Fatalf("IMAGEN_ENDPOINT and IMAGEN_API_KEY must be set")
	}

	outputDir := os.Getenv("IMAGE_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "public/images/articles"
	}
	publicPrefix := os.Getenv("IMAGE_PUBLIC_PREFIX")
	if publicPrefix == "" {
		publicPrefix = "/images/articles"
	}

	images := imagen.NewVertexClient(imagenEndpoint, imagenKey, outputDir, publicPrefix)

	repo := repository.NewGuideRepository(db.DB)
	pub := publisher.New(repo)
	pipe := pipeline.New(writer, images, repo, pub)

	slog.Info("regenerator worker started")

	for {
		payload, err := db.PopFromQueue(db.RegenerateQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		var job model.RegenerateJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			slog.Error("invalid job payload in queue", "payload", payload, "error", err)
			continue
		}

		slog.Info("regenerating guide", "slug", job.Slug)

		spec := topic.TopicSpec{Topic: job.Topic, Slug: job.Slug}

		if err := pipe.RunOne(spec, true); err != nil {
			slog.Error("error regenerating guide", "error", err, "slug", job.Slug)

			if err := db.PushToQueue(db.DeadLetterKey, payload); err != nil {
				slog.Error("error pushing to dead letter queue", "error", err, "slug", job.Slug)
			}

			time.Sleep(5 * time.Second)
			continue
		}

		slog.Info("guide regenerated successfully", "slug", job.Slug)
	}
}
