package cli

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

var (
	searchPlatforms []string
	searchCompanies []string
	searchLocation  string
	searchLimit     int
	searchURLs      bool
	searchJSONOut   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search job boards in parallel",
	Long: `Search the wired job boards in parallel and merge the results.

Platforms: ` + strings.Join(jobs.SupportedPlatforms(), ", ") + `.
Greenhouse and Lever have no global search endpoint: pass company board
slugs via --companies (e.g. --companies stripe,figma).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spin := startSpinner(searchJSONOut, "Searching")
		res, err := jobs.SearchJobs(cmd.Context(), jobs.SearchRequest{
			Query:          args[0],
			Location:       searchLocation,
			Platforms:      searchPlatforms,
			Companies:      searchCompanies,
			MaxPerPlatform: searchLimit,
		})
		stopSpinner(spin, err)
		if err != nil {
			return err
		}
		if searchJSONOut {
			return printJSON(res)
		}

		pterm.Info.Printf("%d results for %q on %s\n", res.TotalResults, res.Query,
			strings.Join(res.PlatformsSearched, ", "))

		if res.TotalResults > 0 {
			data := pterm.TableData{{"Title", "Company", "Location", "Source"}}
			for _, l := range res.Listings {
				data = append(data, []string{
					engine.TruncateRunes(l.Title, 48, "…"),
					engine.TruncateRunes(l.Company, 24, "…"),
					engine.TruncateRunes(l.Location, 20, "…"),
					l.Source,
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}

			if searchURLs {
				pterm.Println()
				for _, l := range res.Listings {
					pterm.Printf("  %s\n", l.URL)
				}
			}
		}

		for platform, msg := range res.Errors {
			pterm.Warning.Printf("%s: %s\n", platform, msg)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchPlatforms, "platforms", "p", nil, "platforms to search (default: all)")
	searchCmd.Flags().StringSliceVar(&searchCompanies, "companies", nil, "greenhouse/lever board slugs")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location filter")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results per platform")
	searchCmd.Flags().BoolVar(&searchURLs, "urls", false, "list posting URLs under the table")
	searchCmd.Flags().BoolVar(&searchJSONOut, "json", false, "print the raw results as JSON")
	rootCmd.AddCommand(searchCmd)
}
