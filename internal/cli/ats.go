package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine/ats"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

var (
	atsJob     jobRef
	atsTitle   string
	atsCompany string
	atsJSONOut bool
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume]",
	Short: "Score a resume against a job with the three-layer ATS check",
	Long: `Run the full ATS compatibility check: formatting (20 pts),
keyword match (60 pts) and integrity (20 pts).

The job comes from --job-url, --job-text or --job-id. Without an LLM
client only the deterministic formatting layer runs and the extraction
prompts are printed for the host model.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		res, err := parseResumeArg(args, atsJSONOut)
		if err != nil {
			return err
		}

		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		spin := startSpinner(atsJSONOut, "Resolving job")
		jobText, title, company, err := atsJob.resolve(ctx, st)
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if atsTitle != "" {
			title = atsTitle
		}
		if atsCompany != "" {
			company = atsCompany
		}

		spin = startSpinner(atsJSONOut, "Running ATS analysis")
		report, partial, err := ats.Check(ctx, res, jobText, title, company)
		stopSpinner(spin, err)
		if err != nil {
			return err
		}

		if partial != nil {
			if atsJSONOut {
				return printJSON(partial)
			}
			pterm.Warning.Println("No LLM client configured: only the formatting layer ran.")
			pterm.Printf("  Formatting: %d/%d\n",
				partial.Layer1Complete.Score, partial.Layer1Complete.MaxScore)
			pterm.Println()
			pterm.Println(partial.Instruction)
			return nil
		}

		if atsJSONOut {
			return printJSON(report)
		}
		pterm.Println(report.FormattedText)
		return nil
	},
}

func init() {
	atsJob.register(atsCmd)
	atsCmd.Flags().StringVar(&atsTitle, "title", "", "job title override")
	atsCmd.Flags().StringVar(&atsCompany, "company", "", "company override")
	atsCmd.Flags().BoolVar(&atsJSONOut, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(atsCmd)
}
