package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the env file named by TOMBENCH_ENV (default .env) and its
// .secret sidecar. Missing files are fine; variables already set in the
// process environment win.
func Load() error {
	envFile := envString("TOMBENCH_ENV", ".env")
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func ServerPort() int { return envInt("SERVER_PORT", 8080) }

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string { return os.Getenv("DATABASE_URL") }

func MigrationsPath() string { return envString("MIGRATIONS_PATH", "migrations") }

// LLMProvider names the provider answering evaluation questions: openai
// (default), anthropic, gemini, cerebras or mock.
func LLMProvider() string { return envString("LLM_PROVIDER", "openai") }

// LLMModel overrides the provider's default model when set.
func LLMModel() string { return os.Getenv("LLM_MODEL") }

// LLMAPIKey returns the key for LLMProvider.
func LLMAPIKey() string {
	return APIKeyFor(LLMProvider())
}

var apiKeyVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"cerebras":  "CEREBRAS_API_KEY",
}

// APIKeyFor returns the API key variable matching provider. Unknown
// providers get no key.
func APIKeyFor(provider string) string {
	v, ok := apiKeyVars[provider]
	if !ok {
		return ""
	}
	return os.Getenv(v)
}

// RateLimitRPS is the per-key request rate of the HTTP API. Defaults to 100.
func RateLimitRPS() float64 { return envFloat("RATE_LIMIT_RPS", 100) }

func RateLimitBurst() int { return envInt("RATE_LIMIT_BURST", 20) }

// LogLevel is one of debug, info, warn, error. Defaults to info.
func LogLevel() string { return envString("LOG_LEVEL", "info") }

// EvalConcurrency is the number of questions in flight during evaluation.
func EvalConcurrency() int { return envInt("EVAL_CONCURRENCY", 4) }

// EvalRPS caps model calls per second during evaluation.
func EvalRPS() float64 { return envFloat("EVAL_RPS", 2) }

// Seed returns TOMBENCH_SEED, or 0 (time-based) when unset or invalid.
func Seed() uint64 {
	seed, err := strconv.ParseUint(os.Getenv("TOMBENCH_SEED"), 10, 64)
	if err != nil {
		return 0
	}
	return seed
}

// WorldPath is the identifier catalog (world.json or world.yaml).
func WorldPath() string { return envString("WORLD_PATH", "world.json") }
