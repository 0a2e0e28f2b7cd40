package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samecityapp/yeriniayirV1-sub002/db"
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

	topicsFile := os.Getenv("TOPICS_FILE")
	if topicsFile == "" {
		topicsFile = "topics.json"
	}

	topics, err := topic.Load(topicsFile)
	if err != nil {
		log.Fatalf("error loading topics: %v", err)
	}

	if len(topics) == 0 {
		slog.Info("no topics to process, exiting")
		return
	}

	writer := newGuideWriter()

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

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewGuideRepository(db.DB)
	pub := publisher.New(repo)
	pipe := pipeline.New(writer, images, repo, pub)

	// SIGINT/SIGTERM stop the batch at the next topic boundary; the
	// rerun picks up whatever was not published.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting batch", "topics", len(topics), "file", topicsFile)

	summary := pipe.Run(ctx, topics)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func newGuideWriter() llm.GuideWriter {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return llm.NewOpenAIClient(key)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	log.Fatalf("OPENAI_API_KEY or ANTHROPIC_API_KEY must be set")
	return nil
}
