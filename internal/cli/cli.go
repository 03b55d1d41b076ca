// Package cli implements the go_apply command line. The bare command
// starts the MCP tool server; subcommands run the same operations
// directly in the terminal.
package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
	"github.com/anatolykoptev/go_apply/internal/toolutil"
)

var rootCmd = &cobra.Command{
	Use:   "go_apply",
	Short: "Job application assistant: resume parsing, ATS scoring, tailoring, tracking",
	Long: `go_apply — job application assistant.

Parses PDF and DOCX resumes, scores them against job descriptions with a
three-layer ATS check, tailors them behind a diff-and-confirm workflow,
writes cover letters, searches job boards, and tracks applications.

Run without arguments to start the MCP tool server. Subcommands run the
same operations directly:

  go_apply parse resume.pdf
  go_apply ats resume.pdf --job-url https://boards.greenhouse.io/acme/jobs/123
  go_apply tailor resume.pdf --job-text "$(pbpaste)" --export md
  go_apply search "senior golang engineer" --platforms remoteok,hn
  go_apply dashboard

The resume path argument is optional everywhere: RESUME_PATH from the
environment (or .env) is the fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	}
}

// Execute runs the root command. version is stamped by the build.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseResumeArg resolves the resume path from the optional positional
// argument (RESUME_PATH as fallback) and parses the file. quiet skips
// the spinner so --json output stays clean.
func parseResumeArg(args []string, quiet bool) (*resume.Resume, error) {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	path, err := toolutil.ResumePath(arg)
	if err != nil {
		return nil, err
	}
	if quiet {
		return resume.Parse(path)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Parsing " + filepath.Base(path))
	res, err := resume.Parse(path)
	if err != nil {
		spinner.Fail("Parse failed")
		return nil, err
	}
	spinner.Success("Parsed " + filepath.Base(path))
	return res, nil
}

// jobRef holds the job-reference flags shared by ats, tailor and
// cover-letter. Exactly one of the three must be set.
type jobRef struct {
	url  string
	text string
	id   string
}

func (j *jobRef) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&j.url, "job-url", "u", "", "job posting URL")
	cmd.Flags().StringVarP(&j.text, "job-text", "t", "", "pasted job description text")
	cmd.Flags().StringVar(&j.id, "job-id", "", "stored job id from a previous fetch")
}

func (j *jobRef) resolve(ctx context.Context, st store.Store) (text, title, company string, err error) {
	return toolutil.ResolveJobText(ctx, st, toolutil.JobInput{
		JobID: j.id,
		URL:   j.url,
		Text:  j.text,
	})
}

// startSpinner starts a progress spinner unless quiet. stopSpinner is
// nil-safe so the pair wraps any call unconditionally.
func startSpinner(quiet bool, text string) *pterm.SpinnerPrinter {
	if quiet {
		return nil
	}
	spinner, _ := pterm.DefaultSpinner.Start(text)
	return spinner
}

func stopSpinner(s *pterm.SpinnerPrinter, err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.Fail()
		return
	}
	_ = s.Stop()
}

// printPending explains external-completion mode: without LLM_API_KEY
// the engine composes the prompt and hands it back instead of calling a
// model, so the user runs it through their own.
func printPending(prompt string) {
	pterm.Warning.Println("No LLM client configured (set LLM_API_KEY). Run this prompt through your own model:")
	pterm.Println()
	pterm.Println(prompt)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
