package llm

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// LLMRequest carries the full conversation so far. The retry loop
// relies on conversational memory: correction prompts reference the
// model's earlier responses without restating the task.
type LLMRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}
