package cli

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
)

var parseJSONOut bool

var parseCmd = &cobra.Command{
	Use:   "parse [resume]",
	Short: "Parse a resume into canonical sections and contact info",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := parseResumeArg(args, parseJSONOut)
		if err != nil {
			return err
		}
		if parseJSONOut {
			return printJSON(res)
		}

		pterm.Printf("  Name:     %s\n", orNA(res.Contact.Name))
		pterm.Printf("  Email:    %s\n", orNA(res.Contact.Email))
		pterm.Printf("  Phone:    %s\n", orNA(res.Contact.Phone))
		pterm.Printf("  Type:     %s\n", res.FileInfo.Type)
		pterm.Printf("  Pages:    %d\n", res.Metadata.PageCount)
		pterm.Printf("  Sections: %d\n", len(res.SectionHeaders))
		for _, h := range res.SectionHeaders {
			marker := ""
			if !h.IsStandard {
				marker = "  (non-standard)"
			}
			pterm.Printf("    %s → %s%s\n", h.Original, h.Canonical, marker)
		}

		if len(res.Metadata.Warnings) > 0 {
			pterm.Println()
			for _, w := range res.Metadata.Warnings {
				pterm.Warning.Println(w)
			}
		}
		return nil
	},
}

var profileJSONOut bool

var profileCmd = &cobra.Command{
	Use:   "profile [resume]",
	Short: "Extract a professional profile and suggested search queries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := parseResumeArg(args, profileJSONOut)
		if err != nil {
			return err
		}

		spin := startSpinner(profileJSONOut, "Extracting profile")
		prof, comp, err := resume.BuildProfile(cmd.Context(), res)
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if comp.Pending() {
			printPending(comp.Prompt())
			return nil
		}

		queries := prof.SearchQueries()
		if profileJSONOut {
			return printJSON(struct {
				Profile resume.Profile       `json:"profile"`
				Queries []resume.SearchQuery `json:"suggested_queries"`
			}{prof, queries})
		}

		pterm.Success.Println("Profile extracted")
		pterm.Printf("  Name:      %s\n", orNA(prof.Name))
		pterm.Printf("  Title:     %s\n", orNA(prof.CurrentTitle))
		pterm.Printf("  Seniority: %s\n", orNA(prof.Seniority))
		pterm.Printf("  Years:     %.1f\n", prof.TotalExperienceYears)
		skills := prof.TopSkills
		if len(skills) > 8 {
			skills = skills[:8]
		}
		pterm.Printf("  Skills:    %s\n", orNA(strings.Join(skills, ", ")))
		pterm.Printf("  Roles:     %s\n", orNA(strings.Join(prof.PreferredRoles, ", ")))

		if len(queries) > 0 {
			pterm.Println()
			pterm.Info.Println("Suggested searches:")
			for _, q := range queries {
				pterm.Printf("  go_apply search %q\n", q.Query)
			}
		}
		return nil
	},
}

var (
	exportToken   string
	exportFile    string
	exportFormat  string
	exportName    string
	exportCompany string
	exportTitle   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export resume text or a tailor token to markdown or HTML",
	Long: `Export writes a resume into the outputs directory.

The content comes from --file (a plain-text resume) or from --token
(a single-use token issued by tailor in this process; consumed on use).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if exportFile != "" {
			data, err := os.ReadFile(exportFile)
			if err != nil {
				return err
			}
			text = string(data)
		}

		path, err := resume.Export(resume.ExportInput{
			Text:    text,
			Token:   exportToken,
			Format:  exportFormat,
			Name:    exportName,
			Company: exportCompany,
			Title:   exportTitle,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSONOut, "json", false, "print the full parse as JSON")
	profileCmd.Flags().BoolVar(&profileJSONOut, "json", false, "print the profile as JSON")

	exportCmd.Flags().StringVar(&exportToken, "token", "", "single-use tailor token")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "text file with the resume content")
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "output format: md or html")
	exportCmd.Flags().StringVar(&exportName, "name", "", "candidate name for the filename")
	exportCmd.Flags().StringVar(&exportCompany, "company", "", "company for the filename")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "job title for the filename")

	rootCmd.AddCommand(parseCmd, profileCmd, exportCmd)
}
