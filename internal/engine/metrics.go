package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ResumesParsed        atomic.Int64
	ATSChecks            atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
	FetchRequests        atomic.Int64
	FetchErrors          atomic.Int64
	Tailorings           atomic.Int64
	CoverLetters         atomic.Int64
	JobSearches          atomic.Int64
	GreenhouseRequests   atomic.Int64
	LeverRequests        atomic.Int64
	RemoteOKRequests     atomic.Int64
	RemotiveRequests     atomic.Int64
	HNJobsRequests       atomic.Int64
	ApplicationsPrepared atomic.Int64
	ApplicationsConfirmed atomic.Int64
	ApplicationsCancelled atomic.Int64
	TokensIssued         atomic.Int64
	TokensConsumed       atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"resumes_parsed":         metrics.ResumesParsed.Load(),
		"ats_checks":             metrics.ATSChecks.Load(),
		"llm_calls":              metrics.LLMCalls.Load(),
		"llm_errors":             metrics.LLMErrors.Load(),
		"fetch_requests":         metrics.FetchRequests.Load(),
		"fetch_errors":           metrics.FetchErrors.Load(),
		"tailorings":             metrics.Tailorings.Load(),
		"cover_letters":          metrics.CoverLetters.Load(),
		"job_searches":           metrics.JobSearches.Load(),
		"greenhouse_requests":    metrics.GreenhouseRequests.Load(),
		"lever_requests":         metrics.LeverRequests.Load(),
		"remoteok_requests":      metrics.RemoteOKRequests.Load(),
		"remotive_requests":      metrics.RemotiveRequests.Load(),
		"hn_jobs_requests":       metrics.HNJobsRequests.Load(),
		"applications_prepared":  metrics.ApplicationsPrepared.Load(),
		"applications_confirmed": metrics.ApplicationsConfirmed.Load(),
		"applications_cancelled": metrics.ApplicationsCancelled.Load(),
		"tokens_issued":          metrics.TokensIssued.Load(),
		"tokens_consumed":        metrics.TokensConsumed.Load(),
		"cache_hits":             hits,
		"cache_misses":           misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"resumes_parsed", "ats_checks",
		"llm_calls", "llm_errors",
		"fetch_requests", "fetch_errors",
		"tailorings", "cover_letters",
		"job_searches",
		"greenhouse_requests", "lever_requests",
		"remoteok_requests", "remotive_requests", "hn_jobs_requests",
		"applications_prepared", "applications_confirmed", "applications_cancelled",
		"tokens_issued", "tokens_consumed",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages (resume, ats, tailor, jobs, apply).
func IncrResumesParsed()         { metrics.ResumesParsed.Add(1) }
func IncrATSChecks()             { metrics.ATSChecks.Add(1) }
func IncrFetchRequests()         { metrics.FetchRequests.Add(1) }
func IncrFetchErrors()           { metrics.FetchErrors.Add(1) }
func IncrTailorings()            { metrics.Tailorings.Add(1) }
func IncrCoverLetters()          { metrics.CoverLetters.Add(1) }
func IncrJobSearches()           { metrics.JobSearches.Add(1) }
func IncrGreenhouseRequests()    { metrics.GreenhouseRequests.Add(1) }
func IncrLeverRequests()         { metrics.LeverRequests.Add(1) }
func IncrRemoteOKRequests()      { metrics.RemoteOKRequests.Add(1) }
func IncrRemotiveRequests()      { metrics.RemotiveRequests.Add(1) }
func IncrHNJobsRequests()        { metrics.HNJobsRequests.Add(1) }
func IncrApplicationsPrepared()  { metrics.ApplicationsPrepared.Add(1) }
func IncrApplicationsConfirmed() { metrics.ApplicationsConfirmed.Add(1) }
func IncrApplicationsCancelled() { metrics.ApplicationsCancelled.Add(1) }
func IncrTokensIssued()          { metrics.TokensIssued.Add(1) }
func IncrTokensConsumed()        { metrics.TokensConsumed.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
