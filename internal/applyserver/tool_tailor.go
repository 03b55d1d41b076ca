package applyserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
	"github.com/anatolykoptev/go_apply/internal/engine/tailor"
	"github.com/anatolykoptev/go_apply/internal/toolutil"
)

// loadResumeText accepts a resume as either a file or pasted text and
// returns the raw text plus the parsed candidate name when available.
func loadResumeText(filePath, text string) (raw, name string, err error) {
	if filePath != "" && text != "" {
		return "", "", errors.New("provide either file_path or resume_text, not both")
	}
	if filePath != "" {
		res, err := resume.Parse(filePath)
		if err != nil {
			return "", "", err
		}
		return res.RawText, res.Contact.Name, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", "", errors.New("provide a resume via file_path or resume_text")
	}
	return text, "", nil
}

type TailorResumeInput struct {
	FilePath        string   `json:"file_path,omitempty" jsonschema:"Resume file to tailor (alternative to resume_text)"`
	ResumeText      string   `json:"resume_text,omitempty" jsonschema:"Resume text to tailor"`
	JobID           string   `json:"job_id,omitempty" jsonschema:"Stored job id from fetch_job"`
	JobText         string   `json:"job_text,omitempty" jsonschema:"Raw job description text (alternative to job_id)"`
	JobTitle        string   `json:"job_title,omitempty"`
	Company         string   `json:"company,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty" jsonschema:"Missing keywords from an ats_check report to weave in"`
	Issues          []string `json:"issues,omitempty" jsonschema:"Issue lines from an ats_check report to address"`
}

type TailorResumeOutput struct {
	Status       string         `json:"status"`
	Result       *tailor.Result `json:"result,omitempty"`
	TailorPrompt string         `json:"tailor_prompt,omitempty"`
	Instruction  string         `json:"instruction,omitempty"`
}

const tailorInstruction = `No LLM client is configured. Run tailor_prompt through your own model; its text output is the tailored resume. Review it with the user, then pass it to export_resume as text.`

func registerTailorResume(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tailor_resume",
		Description: "Rewrite a resume for a specific job: weaves in missing keywords, reorders bullets by relevance, keeps every fact truthful. Returns the tailored text with a line diff, a confirmation message, and a single-use tailor token for export_resume. Requires user confirmation before export.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TailorResumeInput) (*mcp.CallToolResult, *TailorResumeOutput, error) {
		raw, _, err := loadResumeText(input.FilePath, input.ResumeText)
		if err != nil {
			return nil, nil, err
		}
		if input.JobID == "" && input.JobText == "" {
			return nil, nil, errors.New("provide a job via job_id or job_text")
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

		result, comp, err := tailor.Tailor(ctx, tailor.Request{
			ResumeText:      raw,
			JobTitle:        title,
			Company:         company,
			JobDescription:  jobText,
			MissingKeywords: input.MissingKeywords,
			Issues:          input.Issues,
		})
		if err != nil {
			return nil, nil, err
		}
		if comp.Pending() {
			return nil, &TailorResumeOutput{
				Status:       statusNeedsExternalCompletion,
				TailorPrompt: comp.Prompt(),
				Instruction:  tailorInstruction,
			}, nil
		}
		return nil, &TailorResumeOutput{Status: statusSuccess, Result: result}, nil
	})
}

type GenerateCoverLetterInput struct {
	FilePath      string `json:"file_path,omitempty" jsonschema:"Resume file (alternative to resume_text)"`
	ResumeText    string `json:"resume_text,omitempty" jsonschema:"Resume text"`
	JobID         string `json:"job_id,omitempty" jsonschema:"Stored job id from fetch_job"`
	JobText       string `json:"job_text,omitempty" jsonschema:"Raw job description text (alternative to job_id)"`
	JobTitle      string `json:"job_title,omitempty"`
	Company       string `json:"company,omitempty"`
	CandidateName string `json:"candidate_name,omitempty" jsonschema:"Defaults to the name parsed from the resume"`
	HiringManager string `json:"hiring_manager,omitempty"`
	Tone          string `json:"tone,omitempty" jsonschema:"Letter tone: professional (default), friendly, or concise"`
}

type GenerateCoverLetterOutput struct {
	Status       string         `json:"status"`
	Letter       *tailor.Letter `json:"letter,omitempty"`
	LetterPrompt string         `json:"letter_prompt,omitempty"`
	Instruction  string         `json:"instruction,omitempty"`
}

const letterInstruction = `No LLM client is configured. Run letter_prompt through your own model; its text output is the cover letter.`

func registerGenerateCoverLetter(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_cover_letter",
		Description: "Write a personalised cover letter from a resume and job description. Tone options: professional (default), friendly, concise. Returns the letter text with word count.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input GenerateCoverLetterInput) (*mcp.CallToolResult, *GenerateCoverLetterOutput, error) {
		raw, name, err := loadResumeText(input.FilePath, input.ResumeText)
		if err != nil {
			return nil, nil, err
		}
		if input.CandidateName != "" {
			name = input.CandidateName
		}
		if input.JobID == "" && input.JobText == "" {
			return nil, nil, errors.New("provide a job via job_id or job_text")
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

		letter, comp, err := tailor.CoverLetter(ctx, tailor.LetterRequest{
			ResumeText:     raw,
			CandidateName:  name,
			JobTitle:       title,
			Company:        company,
			JobDescription: jobText,
			HiringManager:  input.HiringManager,
			Tone:           input.Tone,
		})
		if err != nil {
			return nil, nil, err
		}
		if comp.Pending() {
			return nil, &GenerateCoverLetterOutput{
				Status:       statusNeedsExternalCompletion,
				LetterPrompt: comp.Prompt(),
				Instruction:  letterInstruction,
			}, nil
		}
		return nil, &GenerateCoverLetterOutput{Status: statusSuccess, Letter: letter}, nil
	})
}
