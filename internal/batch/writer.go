package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

type ResultWriter interface {
	Write(result models.GenerationResult) error
	Close() error
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (ResultWriter, error) {
	switch format {
	case "jsonl":
		return &jsonlWriter{enc: json.NewEncoder(w)}, nil
	case "summary":
		return &summaryWriter{w: w, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (w *jsonlWriter) Write(result models.GenerationResult) error {
	return w.enc.Encode(result)
}

func (w *jsonlWriter) Close() error {
	return nil
}

// summaryWriter accumulates counters and emits one JSON document on
// Close.
type summaryWriter struct {
	w      io.Writer
	logger *zerolog.Logger

	total         int
	succeeded     int
	totalAttempts int
	totalDuration time.Duration
}

type Summary struct {
	Total         int           `json:"total"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	SuccessRate   float64       `json:"success_rate"`
	AvgAttempts   float64       `json:"avg_attempts"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

func (w *summaryWriter) Write(result models.GenerationResult) error {
	w.total++
	if result.Success {
		w.succeeded++
	}
	w.totalAttempts += result.Attempts
	w.totalDuration += result.ExecutionTime
	return nil
}

func (w *summaryWriter) Close() error {
	summary := Summary{
		Total:         w.total,
		Succeeded:     w.succeeded,
		Failed:        w.total - w.succeeded,
		TotalDuration: w.totalDuration,
	}
	if w.total > 0 {
		summary.SuccessRate = float64(w.succeeded) / float64(w.total)
		summary.AvgAttempts = float64(w.totalAttempts) / float64(w.total)
	}

	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	w.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("summary written")
	return nil
}
