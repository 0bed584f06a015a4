package loop

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

type executionLog struct {
	Timestamp       time.Time                `json:"timestamp"`
	Success         bool                     `json:"success"`
	Attempts        int                      `json:"attempts"`
	ExecutionTime   time.Duration            `json:"execution_time_ns"`
	FinalValidation *models.ValidationResult `json:"final_validation,omitempty"`
	DebugInfo       []models.AttemptRecord   `json:"debug_info,omitempty"`
}

// SaveExecutionLog writes a JSON-serializable summary of one execution
// for offline debugging. Optional side effect; correctness never
// depends on it.
func SaveExecutionLog(result models.GenerationResult, path string) error {
	entry := executionLog{
		Timestamp:       time.Now(),
		Success:         result.Success,
		Attempts:        result.Attempts,
		ExecutionTime:   result.ExecutionTime,
		FinalValidation: result.ValidationResult,
		DebugInfo:       result.DebugInfo,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize execution log: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write execution log: %w", err)
	}

	return nil
}
