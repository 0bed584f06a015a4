package loop

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm"
)

func TestExecute_RetryConfigRouting(t *testing.T) {
	tests := []struct {
		name  string
		retry bool
	}{
		{"retry enabled uses InvokeModelWithRetry", true},
		{"retry disabled uses InvokeModel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := llm.NewMockLLMClient(ctrl)

			response := &llm.LLMResponse{Content: "3", StopReason: "end_turn"}
			if tt.retry {
				client.EXPECT().InvokeModelWithRetry(gomock.Any(), gomock.Any()).Return(response, nil)
			} else {
				client.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(response, nil)
			}

			logger := zerolog.Nop()
			l := NewValidationLoop(client, Config{MaxRetries: 1, Retry: tt.retry}, &logger)

			result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "ok"}, Options{})
			if !result.Success {
				t.Fatalf("Expected success, got %+v", result)
			}
		})
	}
}
