package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

func TestNewWriter_UnknownFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "xml", newTestLogger()); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "jsonl", newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	results := []models.GenerationResult{
		{ID: "a", Success: true, Output: "3", Attempts: 1},
		{ID: "b", Success: false, Output: "30", Attempts: 3},
	}
	for _, r := range results {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var decoded models.GenerationResult
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", lines+1, err)
		}
		if decoded.ID != results[lines].ID {
			t.Errorf("Line %d ID = %q, want %q", lines+1, decoded.ID, results[lines].ID)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("Wrote %d lines, want 2", lines)
	}
}

func TestSummaryWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "summary", newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	results := []models.GenerationResult{
		{ID: "a", Success: true, Attempts: 1, ExecutionTime: time.Second},
		{ID: "b", Success: true, Attempts: 2, ExecutionTime: time.Second},
		{ID: "c", Success: false, Attempts: 3, ExecutionTime: time.Second},
		{ID: "d", Success: true, Attempts: 2, ExecutionTime: time.Second},
	}
	for _, r := range results {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Summary is not valid JSON: %v", err)
	}

	if summary.Total != 4 || summary.Succeeded != 3 || summary.Failed != 1 {
		t.Errorf("Summary = %+v, want 4 total, 3 succeeded, 1 failed", summary)
	}
	if summary.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", summary.SuccessRate)
	}
	if summary.AvgAttempts != 2 {
		t.Errorf("AvgAttempts = %v, want 2", summary.AvgAttempts)
	}
	if summary.TotalDuration != 4*time.Second {
		t.Errorf("TotalDuration = %v, want 4s", summary.TotalDuration)
	}
}
