package applyserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

type FetchJobInput struct {
	URL     string `json:"url,omitempty" jsonschema:"Job posting URL to fetch and parse"`
	Text    string `json:"text,omitempty" jsonschema:"Pasted job description text (alternative to url)"`
	Title   string `json:"title,omitempty" jsonschema:"Job title hint when the posting does not state it"`
	Company string `json:"company,omitempty" jsonschema:"Company name hint"`
}

func registerFetchJob(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_job",
		Description: "Fetch a job posting from a URL (or accept pasted text) and structure it: title, company, location, requirements, responsibilities. The raw posting is saved under a stable job_id for ats_check and prepare_application.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input FetchJobInput) (*mcp.CallToolResult, *jobs.FetchResult, error) {
		res, err := jobs.FetchJob(ctx, st, jobs.FetchRequest{
			URL:     input.URL,
			Text:    input.Text,
			Title:   input.Title,
			Company: input.Company,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

type SearchJobsInput struct {
	Query          string   `json:"query" jsonschema:"Job search keywords (e.g. golang developer, data engineer)"`
	Location       string   `json:"location,omitempty" jsonschema:"City, country, or Remote"`
	Platforms      []string `json:"platforms,omitempty" jsonschema:"Boards to search: greenhouse, lever, remoteok, remotive, hn (default: all)"`
	Companies      []string `json:"companies,omitempty" jsonschema:"Company board slugs or board URLs, required for greenhouse and lever (e.g. stripe, https://jobs.lever.co/netflix)"`
	MaxPerPlatform int      `json:"max_per_platform,omitempty" jsonschema:"Max results per board (default 10, cap 30)"`
}

func registerSearchJobs(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_jobs",
		Description: "Search job listings across browserless boards: Greenhouse, Lever, RemoteOK, Remotive, and HN Who is Hiring. Returns per-board listings with title, company, location, salary, and URL; per-board failures are reported without failing the search.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchJobsInput) (*mcp.CallToolResult, *jobs.SearchResult, error) {
		if input.Query == "" {
			return nil, nil, errors.New("query is required")
		}
		res, err := jobs.SearchJobs(ctx, jobs.SearchRequest{
			Query:          input.Query,
			Location:       input.Location,
			Platforms:      input.Platforms,
			Companies:      input.Companies,
			MaxPerPlatform: input.MaxPerPlatform,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}
