package ats

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/resume"
)

const (
	jdExtractChars     = 4000
	resumeExtractChars = 5000

	defaultJobTitle = "Unknown Role"
	defaultCompany  = "Unknown Company"
)

const completeInstruction = `Layer 1 (Formatting) is complete. To finish the ATS check:
1. Run the JD extraction prompt and return the structured JSON
2. Run the resume extraction prompt and return the structured JSON
3. Call ats_check_complete with both results to get the full report`

// Check runs the full three-layer analysis. With an LLM client
// configured it returns the finished report; without one it returns a
// partial result carrying both extraction prompts for the host model.
// Exactly one of the two returns is non-nil on success.
func Check(ctx context.Context, res *resume.Resume, jobText, jobTitle, company string) (*Report, *PartialResult, error) {
	if jobTitle == "" {
		jobTitle = defaultJobTitle
	}
	if company == "" {
		company = defaultCompany
	}

	formatting := CheckFormatting(res)

	jd, jdComp, err := extractJD(ctx, jobText)
	if err != nil {
		return nil, nil, err
	}
	rx, rxComp, err := extractResume(ctx, res.RawText)
	if err != nil {
		return nil, nil, err
	}

	if jdComp.Pending() || rxComp.Pending() {
		return nil, &PartialResult{
			Status:                 StatusNeedsExternalCompletion,
			Layer1Complete:         formatting,
			JDExtractionPrompt:     jdComp.Prompt(),
			ResumeExtractionPrompt: rxComp.Prompt(),
			JobTitle:               jobTitle,
			Company:                company,
			Instruction:            completeInstruction,
		}, nil
	}

	report := assembleReport(res, jd, rx, formatting, jobTitle, company)
	engine.IncrATSChecks()
	return report, nil, nil
}

// CheckWithExtracts finishes a check with caller-provided extracts,
// typically the host model's answers to a partial result's prompts.
func CheckWithExtracts(res *resume.Resume, jd *JDExtract, rx *ResumeExtract, jobTitle, company string) *Report {
	if jobTitle == "" {
		jobTitle = defaultJobTitle
	}
	if company == "" {
		company = defaultCompany
	}

	report := assembleReport(res, jd, rx, CheckFormatting(res), jobTitle, company)
	engine.IncrATSChecks()
	return report
}

func assembleReport(res *resume.Resume, jd *JDExtract, rx *ResumeExtract, formatting *FormatterResult, jobTitle, company string) *Report {
	keywords := ScoreKeywords(jd, rx, res.RawText, res.Sections)
	integrity := CheckIntegrity(res, rx, jd)
	return BuildReport(formatting, keywords, integrity, jobTitle, company)
}

func extractJD(ctx context.Context, jobText string) (*JDExtract, engine.Completion, error) {
	prompt := fmt.Sprintf(engine.PromptJDExtraction,
		engine.SanitizeContent(engine.TruncateRunes(jobText, jdExtractChars, ""), "JOB_DESCRIPTION"))
	out, comp, err := engine.CompleteJSON[JDExtract](ctx, engine.JDExtractionSystem, prompt, llm.WithChatTemperature(0.1))
	return &out, comp, err
}

func extractResume(ctx context.Context, resumeText string) (*ResumeExtract, engine.Completion, error) {
	prompt := fmt.Sprintf(engine.PromptResumeExtraction,
		engine.SanitizeContent(engine.TruncateRunes(resumeText, resumeExtractChars, ""), "RESUME"))
	out, comp, err := engine.CompleteJSON[ResumeExtract](ctx, engine.ResumeExtractionSystem, prompt, llm.WithChatTemperature(0.1))
	return &out, comp, err
}
