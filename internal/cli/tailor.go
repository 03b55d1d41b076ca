package cli

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
	"github.com/anatolykoptev/go_apply/internal/engine/tailor"
)

var (
	tailorJob     jobRef
	tailorTitle   string
	tailorCompany string
	tailorExport  string
	tailorYes     bool
	tailorJSONOut bool
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume]",
	Short: "Tailor a resume for a job, review the diff, confirm",
	Long: `Rewrite the resume for a specific job: weaves in missing keywords
and reorders bullets by relevance while keeping every fact truthful.

The line diff is shown for review; nothing is written without
confirmation. --export md|html writes the confirmed text into the
outputs directory, consuming the single-use tailor token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		res, err := parseResumeArg(args, tailorJSONOut)
		if err != nil {
			return err
		}

		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		spin := startSpinner(tailorJSONOut, "Resolving job")
		jobText, title, company, err := tailorJob.resolve(ctx, st)
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if tailorTitle != "" {
			title = tailorTitle
		}
		if tailorCompany != "" {
			company = tailorCompany
		}

		spin = startSpinner(tailorJSONOut, "Tailoring resume")
		result, comp, err := tailor.Tailor(ctx, tailor.Request{
			ResumeText:     res.RawText,
			JobTitle:       title,
			Company:        company,
			JobDescription: jobText,
		})
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if comp.Pending() {
			printPending(comp.Prompt())
			return nil
		}
		if tailorJSONOut {
			return printJSON(result)
		}

		pterm.Info.Printf("Resume changes for %s — %s\n", result.Company, result.JobTitle)
		pterm.Println()
		pterm.Println(result.Diff.Formatted)
		pterm.Printf("+%d/-%d lines, %d changes\n",
			result.Diff.Statistics.LinesAdded,
			result.Diff.Statistics.LinesRemoved,
			result.Diff.Statistics.TotalChanges)

		if !result.Diff.HasChanges {
			pterm.Info.Println("The tailored text is identical to the original.")
			return nil
		}

		confirmed := tailorYes
		if !confirmed {
			confirmed, err = pterm.DefaultInteractiveConfirm.
				WithDefaultText("Apply these changes?").Show()
			if err != nil {
				return err
			}
		}
		if !confirmed {
			pterm.Info.Println("Changes discarded.")
			return nil
		}

		if tailorExport == "" {
			pterm.Success.Println("Changes approved.")
			pterm.Info.Println("Re-run with --export md (or html) to write the file.")
			return nil
		}

		path, err := resume.Export(resume.ExportInput{
			Token:   result.TailorToken,
			Format:  tailorExport,
			Name:    res.Contact.Name,
			Company: result.Company,
			Title:   result.JobTitle,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Tailored resume exported to %s\n", path)
		return nil
	},
}

var (
	letterJob     jobRef
	letterTitle   string
	letterCompany string
	letterTone    string
	letterManager string
	letterOut     string
	letterJSONOut bool
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter [resume]",
	Short: "Write a personalised cover letter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		res, err := parseResumeArg(args, letterJSONOut)
		if err != nil {
			return err
		}

		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		spin := startSpinner(letterJSONOut, "Resolving job")
		jobText, title, company, err := letterJob.resolve(ctx, st)
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if letterTitle != "" {
			title = letterTitle
		}
		if letterCompany != "" {
			company = letterCompany
		}

		spin = startSpinner(letterJSONOut, "Writing cover letter")
		letter, comp, err := tailor.CoverLetter(ctx, tailor.LetterRequest{
			ResumeText:     res.RawText,
			CandidateName:  res.Contact.Name,
			JobTitle:       title,
			Company:        company,
			JobDescription: jobText,
			HiringManager:  letterManager,
			Tone:           letterTone,
		})
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if comp.Pending() {
			printPending(comp.Prompt())
			return nil
		}
		if letterJSONOut {
			return printJSON(letter)
		}

		pterm.Info.Printf("Cover letter — %s, %s (%d words)\n",
			letter.JobTitle, letter.Company, letter.WordCount)
		pterm.Println()
		pterm.Println(letter.CoverLetter)

		if letterOut != "" {
			if err := os.WriteFile(letterOut, []byte(letter.CoverLetter), 0644); err != nil {
				return err
			}
			pterm.Success.Printf("Saved to %s\n", letterOut)
		}
		return nil
	},
}

func init() {
	tailorJob.register(tailorCmd)
	tailorCmd.Flags().StringVar(&tailorTitle, "title", "", "job title override")
	tailorCmd.Flags().StringVar(&tailorCompany, "company", "", "company override")
	tailorCmd.Flags().StringVar(&tailorExport, "export", "", "write the confirmed resume: md or html")
	tailorCmd.Flags().BoolVarP(&tailorYes, "yes", "y", false, "skip the confirmation prompt")
	tailorCmd.Flags().BoolVar(&tailorJSONOut, "json", false, "print the full result as JSON")

	letterJob.register(coverLetterCmd)
	coverLetterCmd.Flags().StringVar(&letterTitle, "title", "", "job title override")
	coverLetterCmd.Flags().StringVar(&letterCompany, "company", "", "company override")
	coverLetterCmd.Flags().StringVar(&letterTone, "tone", "professional", "letter tone: professional, friendly or concise")
	coverLetterCmd.Flags().StringVar(&letterManager, "hiring-manager", "", "hiring manager name")
	coverLetterCmd.Flags().StringVarP(&letterOut, "output", "o", "", "write the letter to a file")
	coverLetterCmd.Flags().BoolVar(&letterJSONOut, "json", false, "print the letter as JSON")

	rootCmd.AddCommand(tailorCmd, coverLetterCmd)
}
