package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/setup"
	logging "github.com/povarna/generative-ai-agents/loop-agent/internal/setup/logger"
)

func main() {
	taskName := flag.String("task", "", "Task name to run")
	data := flag.String("d", "{}", "Inline JSON input data for the task template")
	maxRetries := flag.Int("max-retries", 0, "Attempt budget override (default from config)")
	debug := flag.Bool("debug", false, "Record per-attempt debug info")
	logPath := flag.String("log", "", "Optional path for a JSON execution log")
	flag.Parse()

	// Setup logging
	log.Logger = logging.New()
	logger := log.Logger

	if *taskName == "" {
		fmt.Fprintln(os.Stderr, "Usage: loop-agent -task <name> -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var inputData map[string]any
	if err := json.Unmarshal([]byte(*data), &inputData); err != nil {
		log.Fatal().Err(err).Msg("Invalid input data")
	}

	// Load config and wire dependencies
	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	t, err := deps.Tasks.Get(*taskName)
	if err != nil {
		log.Fatal().Err(err).Str("task", *taskName).Msg("Unknown task")
	}

	result := deps.Loop.Execute(ctx, t, inputData, loop.Options{
		MaxRetries: *maxRetries,
		Debug:      *debug || *logPath != "",
	})

	if *logPath != "" {
		if err := loop.SaveExecutionLog(result, *logPath); err != nil {
			log.Error().Err(err).Str("path", *logPath).Msg("Failed to save execution log")
		} else {
			log.Info().Str("path", *logPath).Msg("Execution log saved")
		}
	}

	if !result.Success {
		var errs []string
		if result.ValidationResult != nil {
			errs = result.ValidationResult.Errors
		}
		logger.Error().
			Int("attempts", result.Attempts).
			Strs("errors", errs).
			Msg("Generation did not pass validation")
		fmt.Println(result.Output)
		os.Exit(1)
	}

	logger.Info().
		Int("attempts", result.Attempts).
		Dur("duration", result.ExecutionTime).
		Msg("Generation succeeded")
	fmt.Println(result.Output)
}
