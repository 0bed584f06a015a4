package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var structValidator = validator.New()

func LoadTasksConfig() (*TasksConfig, error) {
	path := os.Getenv("TASKS_CONFIG_PATH")
	if path == "" {
		path = "configs/tasks.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg TasksConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := structValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid tasks config %s: %w", path, err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *TasksConfig) {
	if cfg.Defaults.MaxTokens == 0 {
		cfg.Defaults.MaxTokens = 1024
	}
	if cfg.Loop.MaxRetries == 0 {
		cfg.Loop.MaxRetries = 3
	}

	for i := range cfg.Tasks {
		if cfg.Tasks[i].Model == nil {
			model := cfg.Defaults
			cfg.Tasks[i].Model = &model
		}
	}
}
