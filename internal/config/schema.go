package config

// TasksConfig is the complete task catalog configuration.
type TasksConfig struct {
	Defaults ModelParams         `yaml:"defaults"`
	Loop     LoopParams          `yaml:"loop"`
	Tasks    []TaskConfiguration `yaml:"tasks" validate:"required,min=1,dive"`
}

// ModelParams are the generation parameters passed through to the
// model client; this core does not interpret them.
type ModelParams struct {
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	Retry       bool    `yaml:"retry"`
}

// LoopParams configure the retry loop.
type LoopParams struct {
	MaxRetries int `yaml:"max_retries" validate:"gte=0,lte=20"`
}

// TaskConfiguration declares one named task: a prompt template plus
// the validator tree that judges responses to it.
type TaskConfiguration struct {
	Name      string        `yaml:"name" validate:"required"`
	Enabled   bool          `yaml:"enabled"`
	Prompt    string        `yaml:"prompt" validate:"required"`
	Validator ValidatorSpec `yaml:"validator" validate:"required"`
	Model     *ModelParams  `yaml:"model"`
}

// ValidatorSpec declares a validator by registry type. Type
// "composite" combines nested Validators with the given operator;
// Cache wraps the built validator in the shared validation cache.
type ValidatorSpec struct {
	Type         string          `yaml:"type" validate:"required"`
	Params       map[string]any  `yaml:"params"`
	Operator     string          `yaml:"operator" validate:"omitempty,oneof=AND OR"`
	ShortCircuit bool            `yaml:"short_circuit"`
	Concurrent   bool            `yaml:"concurrent"`
	Cache        bool            `yaml:"cache"`
	Validators   []ValidatorSpec `yaml:"validators"`
}
