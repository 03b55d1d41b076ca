package applyserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/apply"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

type TrackApplicationsInput struct {
	Action        string `json:"action,omitempty" jsonschema:"dashboard (default), list, update_status, or history"`
	ApplicationID int64  `json:"application_id,omitempty" jsonschema:"Required for update_status and history"`
	Status        string `json:"status,omitempty" jsonschema:"For update_status: the new status (draft, ready, submitted, rejected, interview, offer). For list: an optional filter."`
	Notes         string `json:"notes,omitempty" jsonschema:"Optional note stored with a status update"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Max rows for list (default 50)"`
}

type TrackApplicationsOutput struct {
	Action       string                 `json:"action"`
	Dashboard    *apply.DashboardResult `json:"dashboard,omitempty"`
	Applications []store.Application    `json:"applications,omitempty"`
	Application  *store.Application     `json:"application,omitempty"`
	History      *apply.HistoryResult   `json:"history,omitempty"`
}

func registerTrackApplications(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "track_applications",
		Description: "View and manage the application tracker. Actions: dashboard — status breakdown with recent applications; list — applications, optionally filtered by status; update_status — move an application to a new status; history — full audit trail of one application.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TrackApplicationsInput) (*mcp.CallToolResult, *TrackApplicationsOutput, error) {
		tracker := apply.NewTracker(st)
		action := input.Action
		if action == "" {
			action = "dashboard"
		}
		out := &TrackApplicationsOutput{Action: action}

		switch action {
		case "dashboard":
			dash, err := tracker.Dashboard(ctx)
			if err != nil {
				return nil, nil, err
			}
			out.Dashboard = dash

		case "list":
			apps, err := tracker.List(ctx, input.Status, input.Limit)
			if err != nil {
				return nil, nil, err
			}
			out.Applications = apps

		case "update_status":
			if input.ApplicationID <= 0 || input.Status == "" {
				return nil, nil, errors.New("application_id and status are required for update_status")
			}
			app, err := tracker.UpdateStatus(ctx, input.ApplicationID, input.Status, input.Notes)
			if err != nil {
				return nil, nil, err
			}
			out.Application = app

		case "history":
			if input.ApplicationID <= 0 {
				return nil, nil, errors.New("application_id is required for history")
			}
			hist, err := tracker.History(ctx, input.ApplicationID)
			if err != nil {
				return nil, nil, err
			}
			out.History = hist

		default:
			return nil, nil, fmt.Errorf("unknown action %q: use dashboard, list, update_status or history", action)
		}

		return nil, out, nil
	})
}
