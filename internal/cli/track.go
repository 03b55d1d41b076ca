package cli

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine/apply"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

var dashboardJSONOut bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the application tracking dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dash, err := apply.NewTracker(st).Dashboard(ctx)
		if err != nil {
			return err
		}
		if dashboardJSONOut {
			return printJSON(dash)
		}
		pterm.Println(dash.Formatted)
		return nil
	},
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track application status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var (
	trackStatus  string
	trackLimit   int
	trackJSONOut bool
)

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		apps, err := apply.NewTracker(st).List(ctx, trackStatus, trackLimit)
		if err != nil {
			return err
		}
		if trackJSONOut {
			return printJSON(apps)
		}
		if len(apps) == 0 {
			pterm.Info.Println("No applications on file.")
			return nil
		}

		data := pterm.TableData{{"ID", "Status", "Position", "Company", "ATS", "Updated"}}
		for _, a := range apps {
			score := "-"
			if a.ATSScore > 0 {
				score = strconv.Itoa(a.ATSScore)
			}
			data = append(data, []string{
				strconv.FormatInt(a.ID, 10),
				string(a.Status),
				orNA(a.JobTitle),
				orNA(a.JobCompany),
				score,
				a.UpdatedAt,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var trackNotes string

var trackUpdateCmd = &cobra.Command{
	Use:   "update <id> <status>",
	Short: "Move an application to a new status",
	Long: `Move an application to a new status and log the change.

Valid statuses: draft, ready, submitted, rejected, interview, offer,
cancelled.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		app, err := apply.NewTracker(st).UpdateStatus(ctx, id, args[1], trackNotes)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Application %d → %s\n", app.ID, app.Status)
		return nil
	},
}

var historyJSONOut bool

var trackHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the audit trail of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		hist, err := apply.NewTracker(st).History(ctx, id)
		if err != nil {
			return err
		}
		if historyJSONOut {
			return printJSON(hist)
		}

		app := hist.Application
		pterm.Info.Printf("Application %d — %s at %s (%s)\n",
			app.ID, orNA(app.JobTitle), orNA(app.JobCompany), app.Status)
		for _, e := range hist.History {
			line := "  " + e.CreatedAt + "  " + e.Action
			if e.Detail != "" {
				line += ": " + e.Detail
			}
			pterm.Println(line)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSONOut, "json", false, "print the dashboard as JSON")

	trackListCmd.Flags().StringVar(&trackStatus, "status", "", "filter by status")
	trackListCmd.Flags().IntVarP(&trackLimit, "limit", "n", 20, "max rows")
	trackListCmd.Flags().BoolVar(&trackJSONOut, "json", false, "print applications as JSON")
	trackUpdateCmd.Flags().StringVar(&trackNotes, "notes", "", "note to attach to the change")
	trackHistoryCmd.Flags().BoolVar(&historyJSONOut, "json", false, "print the history as JSON")

	trackCmd.AddCommand(trackListCmd, trackUpdateCmd, trackHistoryCmd)
	rootCmd.AddCommand(dashboardCmd, trackCmd)
}
