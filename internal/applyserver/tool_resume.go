package applyserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

type ParseResumeInput struct {
	FilePath string `json:"file_path" jsonschema:"Absolute path to the resume file (.pdf or .docx)"`
}

type ParseResumeOutput struct {
	ResumeID int64          `json:"resume_id"`
	Resume   *resume.Resume `json:"resume"`
}

func registerParseResume(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_resume",
		Description: "Parse a resume file (PDF or DOCX) into structured JSON: contact info, canonical sections, formatting metadata, and parser warnings. The result is saved; use the returned resume_id with prepare_application.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ParseResumeInput) (*mcp.CallToolResult, *ParseResumeOutput, error) {
		if input.FilePath == "" {
			return nil, nil, errors.New("file_path is required")
		}
		res, err := resume.Parse(input.FilePath)
		if err != nil {
			return nil, nil, err
		}

		parsed, err := json.Marshal(res)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal resume: %w", err)
		}
		id, err := st.SaveResume(ctx, &store.ResumeRecord{
			FilePath:   res.FileInfo.Path,
			FileType:   res.FileInfo.Type,
			Name:       res.Contact.Name,
			Email:      res.Contact.Email,
			Phone:      res.Contact.Phone,
			RawText:    res.RawText,
			ParsedJSON: string(parsed),
		})
		if err != nil {
			return nil, nil, err
		}

		// Layout rows are formatter input, not tool output.
		res.Layout = nil
		return nil, &ParseResumeOutput{ResumeID: id, Resume: res}, nil
	})
}

type ProfileResumeInput struct {
	FilePath string `json:"file_path" jsonschema:"Path to the resume file to profile"`
}

type ProfileResumeOutput struct {
	Status        string               `json:"status"`
	Profile       *resume.Profile      `json:"profile,omitempty"`
	SearchQueries []resume.SearchQuery `json:"search_queries,omitempty"`
	ProfilePrompt string               `json:"profile_prompt,omitempty"`
	Instruction   string               `json:"instruction,omitempty"`
}

const profileInstruction = `No LLM client is configured. Run profile_prompt through your own model to get the profile JSON.`

func registerProfileResume(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_resume",
		Description: "Extract a professional profile from a resume — seniority, top skills, domains, preferred roles — plus suggested job-board search queries for search_jobs.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ProfileResumeInput) (*mcp.CallToolResult, *ProfileResumeOutput, error) {
		if input.FilePath == "" {
			return nil, nil, errors.New("file_path is required")
		}
		res, err := resume.Parse(input.FilePath)
		if err != nil {
			return nil, nil, err
		}

		profile, comp, err := resume.BuildProfile(ctx, res)
		if err != nil {
			return nil, nil, err
		}
		if comp.Pending() {
			return nil, &ProfileResumeOutput{
				Status:        statusNeedsExternalCompletion,
				ProfilePrompt: comp.Prompt(),
				Instruction:   profileInstruction,
			}, nil
		}

		return nil, &ProfileResumeOutput{
			Status:        statusSuccess,
			Profile:       &profile,
			SearchQueries: profile.SearchQueries(),
		}, nil
	})
}

type ExportResumeInput struct {
	Text        string `json:"text,omitempty" jsonschema:"Resume text to export. Provide either text or tailor_token."`
	TailorToken string `json:"tailor_token,omitempty" jsonschema:"Single-use token from tailor_resume; exports exactly the confirmed text"`
	Format      string `json:"format,omitempty" jsonschema:"Output format: md (default) or html"`
	Name        string `json:"name,omitempty" jsonschema:"Candidate name for the document header and filename"`
	Company     string `json:"company,omitempty" jsonschema:"Company name for the filename"`
	JobTitle    string `json:"job_title,omitempty" jsonschema:"Job title for the filename"`
}

type ExportResumeOutput struct {
	FilePath string `json:"file_path"`
	Format   string `json:"format"`
}

func registerExportResume(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_resume",
		Description: "Export resume text as a markdown or HTML document in the outputs directory. Accepts raw text or a single-use tailor token, which guarantees the exported file matches the confirmed tailoring.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExportResumeInput) (*mcp.CallToolResult, *ExportResumeOutput, error) {
		path, err := resume.Export(resume.ExportInput{
			Text:    input.Text,
			Token:   input.TailorToken,
			Format:  input.Format,
			Name:    input.Name,
			Company: input.Company,
			Title:   input.JobTitle,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, &ExportResumeOutput{
			FilePath: path,
			Format:   strings.TrimPrefix(filepath.Ext(path), "."),
		}, nil
	})
}
