// go_apply — job-application assistant MCP server and CLI.
//
// Parses PDF/DOCX resumes, scores them against job descriptions with a
// 3-layer ATS check, tailors them through an LLM behind a diff-and-confirm
// workflow, and tracks applications in a confirmation-gated state machine.
// Runs as an MCP tool server (default) or as a terminal CLI.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_apply/internal/cli"
	"github.com/anatolykoptev/go_apply/internal/engine"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // .env is optional

	initEngine()

	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 16384),
		LLMRateLimit:       env.Float("LLM_RATE_LIMIT", 0),
		LLMRateBurst:       env.Int("LLM_RATE_BURST", 1),

		MaxResumeSizeMB:    env.Int("MAX_RESUME_SIZE_MB", 10),
		MinATSScore:        env.Int("MIN_ATS_SCORE", 60),
		GapThresholdMonths: env.Int("GAP_THRESHOLD_MONTHS", 6),

		DataDir:     env.Str("DATA_DIR", defaultDataDir()),
		OutputsDir:  env.Str("OUTPUTS_DIR", ""),
		DatabaseURL: env.Str("DATABASE_URL", ""),

		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 6000),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	// Without an API key the engine runs in external-completion mode:
	// prompts are handed back to the host model instead of being sent.
	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Info("no LLM_API_KEY set, running in external-completion mode")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".go_apply"
	}
	return filepath.Join(home, ".go_apply")
}
