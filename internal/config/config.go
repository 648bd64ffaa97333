// Package config provides application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	APIKey        string
	BaseURL       string // optional completion endpoint override
	Model         string // optional model override
	MemoryPath    string
	HistoryBudget int // estimated-rune budget for the transcript window
	TypingDelay   time.Duration
	RulesPath     string // optional slot-rule override file
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:        os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL:       getEnv("EDU_BASE_URL", ""),
		Model:         getEnv("EDU_MODEL", ""),
		MemoryPath:    getEnv("EDU_MEMORY_FILE", "edu_memory.json"),
		HistoryBudget: getEnvInt("EDU_HISTORY_BUDGET", 12000),
		TypingDelay:   time.Duration(getEnvInt("EDU_TYPING_DELAY_MS", 10)) * time.Millisecond,
		RulesPath:     getEnv("EDU_SLOT_RULES", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that must be usable at startup. Only a missing
// credential is unrecoverable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set; export it (or put it in .env) before running")
	}
	if c.MemoryPath == "" {
		return fmt.Errorf("EDU_MEMORY_FILE cannot be empty")
	}
	if c.HistoryBudget <= 0 {
		return fmt.Errorf("EDU_HISTORY_BUDGET must be > 0")
	}
	if c.TypingDelay < 0 {
		return fmt.Errorf("EDU_TYPING_DELAY_MS must be >= 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
