package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMClient          *llm.Client // nil = external-completion mode: prompts are returned, not sent
	LLMRateLimit       float64     // requests per second, 0 = unlimited
	LLMRateBurst       int

	MaxResumeSizeMB    int
	MinATSScore        int
	GapThresholdMonths int

	DataDir     string // defaults to $HOME/.go_apply
	OutputsDir  string // defaults to DataDir/outputs
	DatabaseURL string // non-empty = Postgres store instead of SQLite

	MaxContentChars      int
	FetchTimeout         time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (resume, ats, jobs, store).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
	initBreaker()
	initLimiter()
}
