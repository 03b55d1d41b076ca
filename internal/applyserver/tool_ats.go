package applyserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/ats"
	"github.com/anatolykoptev/go_apply/internal/engine/resume"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
	"github.com/anatolykoptev/go_apply/internal/toolutil"
)

type ATSCheckInput struct {
	FilePath string `json:"file_path" jsonschema:"Path to the resume file"`
	JobID    string `json:"job_id,omitempty" jsonschema:"Stored job id from fetch_job; its saved posting text is scored against"`
	JobText  string `json:"job_text,omitempty" jsonschema:"Raw job description text (alternative to job_id)"`
	JobTitle string `json:"job_title,omitempty" jsonschema:"Job title for the report header"`
	Company  string `json:"company,omitempty" jsonschema:"Company name for the report header"`
}

type ATSCheckOutput struct {
	Status  string             `json:"status"`
	Report  *ats.Report        `json:"report,omitempty"`
	Partial *ats.PartialResult `json:"partial,omitempty"`
}

func registerATSCheck(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ats_check",
		Description: "Run the 3-layer ATS compatibility check on a resume against a job: formatting (20 pts), keyword match (60 pts), data integrity (20 pts). Without an LLM client the formatting layer completes and both extraction prompts are returned for ats_check_complete.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ATSCheckInput) (*mcp.CallToolResult, *ATSCheckOutput, error) {
		if input.FilePath == "" {
			return nil, nil, errors.New("file_path is required")
		}
		if input.JobID == "" && input.JobText == "" {
			return nil, nil, errors.New("provide a job via job_id or job_text")
		}
		res, err := resume.Parse(input.FilePath)
		if err != nil {
			return nil, nil, err
		}

		jobText, title, company, err := toolutil.ResolveJobText(ctx, st, toolutil.JobInput{
			JobID: input.JobID,
			Text:  input.JobText,
		})
		if err != nil {
			return nil, nil, err
		}
		if input.JobTitle != "" {
			title = input.JobTitle
		}
		if input.Company != "" {
			company = input.Company
		}

		report, partial, err := ats.Check(ctx, res, jobText, title, company)
		if err != nil {
			return nil, nil, err
		}
		if partial != nil {
			return nil, &ATSCheckOutput{Status: statusNeedsExternalCompletion, Partial: partial}, nil
		}
		return nil, &ATSCheckOutput{Status: statusSuccess, Report: report}, nil
	})
}

type ATSCheckCompleteInput struct {
	FilePath          string `json:"file_path" jsonschema:"Path to the same resume file the partial check ran on"`
	JDExtractJSON     string `json:"jd_extract_json" jsonschema:"Model output for the jd_extraction_prompt"`
	ResumeExtractJSON string `json:"resume_extract_json" jsonschema:"Model output for the resume_extraction_prompt"`
	JobTitle          string `json:"job_title,omitempty" jsonschema:"Job title carried over from the partial result"`
	Company           string `json:"company,omitempty" jsonschema:"Company carried over from the partial result"`
}

func registerATSCheckComplete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ats_check_complete",
		Description: "Finish a partial ATS check with the host model's answers to both extraction prompts. Returns the full 3-layer report.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ATSCheckCompleteInput) (*mcp.CallToolResult, *ats.Report, error) {
		if input.FilePath == "" {
			return nil, nil, errors.New("file_path is required")
		}
		if input.JDExtractJSON == "" || input.ResumeExtractJSON == "" {
			return nil, nil, errors.New("jd_extract_json and resume_extract_json are required")
		}
		res, err := resume.Parse(input.FilePath)
		if err != nil {
			return nil, nil, err
		}

		jd, err := engine.ParseJSON[ats.JDExtract](input.JDExtractJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("parse jd extract: %w", err)
		}
		rx, err := engine.ParseJSON[ats.ResumeExtract](input.ResumeExtractJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("parse resume extract: %w", err)
		}

		return nil, ats.CheckWithExtracts(res, &jd, &rx, input.JobTitle, input.Company), nil
	})
}
