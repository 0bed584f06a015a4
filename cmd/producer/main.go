package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/loop-agent/internal/redis"
	logging "github.com/povarna/generative-ai-agents/loop-agent/internal/setup/logger"
)

func main() {
	taskName := flag.String("task", "", "Task name to run")
	data := flag.String("d", "{}", "Inline JSON input data for the task template")
	stream := flag.String("stream", "generation-events", "Stream name")
	flag.Parse()

	if *taskName == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -task <name> -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Logger = logging.New()

	if err := run(*taskName, *data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(taskName, data, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	var inputData map[string]any
	if err := json.Unmarshal([]byte(data), &inputData); err != nil {
		return fmt.Errorf("invalid input data: %w", err)
	}

	req := models.GenerationRequest{
		EventID:   uuid.NewString(),
		Task:      taskName,
		InputData: inputData,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("event_id", req.EventID).Msg("Published successfully!")
	return nil
}
