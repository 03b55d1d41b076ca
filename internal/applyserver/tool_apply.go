package applyserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/apply"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

type PrepareApplicationInput struct {
	ResumeID      int64  `json:"resume_id" jsonschema:"Resume id from parse_resume"`
	JobID         string `json:"job_id" jsonschema:"Job id from fetch_job"`
	TailoredText  string `json:"tailored_text,omitempty" jsonschema:"Tailored resume text to attach"`
	CoverLetter   string `json:"cover_letter,omitempty" jsonschema:"Cover letter text to attach"`
	ATSScore      int    `json:"ats_score,omitempty" jsonschema:"Overall score from ats_check"`
	ATSReportJSON string `json:"ats_report_json,omitempty" jsonschema:"Full ats_check report JSON to store with the draft"`
	Override      bool   `json:"override,omitempty" jsonschema:"Skip the minimum ATS score gate"`
}

func registerPrepareApplication(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "prepare_application",
		Description: "Prepare a job application draft and return a summary for user review. Nothing is submitted yet: after the user approves, call confirm_application with the returned application_id. Drafts below the minimum ATS score are rejected unless override is set; a live application for the same resume/job pair rejects as duplicate.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PrepareApplicationInput) (*mcp.CallToolResult, *apply.PrepareResult, error) {
		if input.ResumeID <= 0 {
			return nil, nil, errors.New("resume_id is required")
		}
		if input.JobID == "" {
			return nil, nil, errors.New("job_id is required")
		}
		res, err := apply.NewAgent(st).Prepare(ctx, apply.PrepareRequest{
			ResumeID:      input.ResumeID,
			JobID:         input.JobID,
			TailoredText:  input.TailoredText,
			CoverLetter:   input.CoverLetter,
			ATSScore:      input.ATSScore,
			ATSReportJSON: input.ATSReportJSON,
			Override:      input.Override,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

type ConfirmApplicationInput struct {
	ApplicationID int64 `json:"application_id" jsonschema:"Draft id from prepare_application"`
}

func registerConfirmApplication(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "confirm_application",
		Description: "Mark a prepared application as submitted. Call only after the user has explicitly approved the draft summary from prepare_application. Rejects drafts that are already submitted or cancelled.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ConfirmApplicationInput) (*mcp.CallToolResult, *apply.ConfirmResult, error) {
		if input.ApplicationID <= 0 {
			return nil, nil, errors.New("application_id is required")
		}
		res, err := apply.NewAgent(st).Confirm(ctx, input.ApplicationID)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

type CancelApplicationInput struct {
	ApplicationID int64  `json:"application_id" jsonschema:"Application id to cancel"`
	Reason        string `json:"reason,omitempty" jsonschema:"Why the application is being cancelled"`
}

func registerCancelApplication(server *mcp.Server, st store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_application",
		Description: "Cancel an application at any stage. Cancelled applications never block re-applying to the same job. Cancelling twice is safe.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CancelApplicationInput) (*mcp.CallToolResult, *apply.CancelResult, error) {
		if input.ApplicationID <= 0 {
			return nil, nil, errors.New("application_id is required")
		}
		res, err := apply.NewAgent(st).Cancel(ctx, input.ApplicationID, input.Reason)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}
