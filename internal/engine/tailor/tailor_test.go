package tailor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

func TestTailorExternalMode(t *testing.T) {
	engine.Init(engine.Config{})

	res, comp, err := Tailor(context.Background(), Request{
		ResumeText:      "Backend developer with Go experience",
		JobTitle:        "Platform Engineer",
		Company:         "Acme",
		JobDescription:  "Build and run Go services",
		MissingKeywords: []string{"kubernetes", "grpc"},
	})
	require.NoError(t, err)
	require.Nil(t, res, "no result without an LLM client")
	require.True(t, comp.Pending())

	prompt := comp.Prompt()
	require.Contains(t, prompt, "Platform Engineer")
	require.Contains(t, prompt, "Acme")
	require.Contains(t, prompt, "❮RESUME_START❯")
	require.Contains(t, prompt, "❮JOB_DESCRIPTION_START❯")
	require.Contains(t, prompt, "kubernetes, grpc")
}

func TestCoverLetterExternalMode(t *testing.T) {
	engine.Init(engine.Config{})

	letter, comp, err := CoverLetter(context.Background(), LetterRequest{
		ResumeText:     "Senior engineer, 8 years",
		CandidateName:  "Jane Roe",
		JobTitle:       "Staff Engineer",
		Company:        "Initech",
		JobDescription: "Lead the platform team",
	})
	require.NoError(t, err)
	require.Nil(t, letter)
	require.True(t, comp.Pending())
	require.Contains(t, comp.Prompt(), "Jane Roe")
	require.Contains(t, comp.Prompt(), "TONE: professional", "tone should default")
	require.Contains(t, comp.Prompt(), "hiring team at Initech")
}

func TestKeywordsLine(t *testing.T) {
	require.Equal(t, "None identified", keywordsLine(nil))
	require.Equal(t, "go, sql", keywordsLine([]string{"go", "sql"}))

	many := make([]string, 20)
	for i := range many {
		many[i] = "kw"
	}
	line := keywordsLine(many)
	require.Equal(t, maxPromptKeywords, strings.Count(line, "kw"))
}

func TestIssuesBlock(t *testing.T) {
	require.Equal(t, "No major issues", issuesBlock(nil))

	issues := []string{
		"- Missing email → Add an email address",
		"- Non-standard header → Rename to \"Experience\"",
	}
	block := issuesBlock(issues)
	require.Equal(t, strings.Join(issues, "\n"), block)

	many := make([]string, 15)
	for i := range many {
		many[i] = "- issue"
	}
	require.Len(t, strings.Split(issuesBlock(many), "\n"), maxPromptIssues)
}
