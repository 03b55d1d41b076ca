// Package toolutil holds input-resolution helpers shared by the MCP
// tools and the CLI: resume path lookup and job-reference resolution.
package toolutil

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

// ResumePath resolves the resume file: an explicit argument wins,
// otherwise RESUME_PATH from the environment.
func ResumePath(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if p := env.Str("RESUME_PATH", ""); p != "" {
		return p, nil
	}
	return "", errors.New("no resume file given and RESUME_PATH is not set")
}

// JobInput names a job posting one of three ways. Exactly one field
// may be set.
type JobInput struct {
	JobID string
	URL   string
	Text  string
}

// ResolveJobText turns a job reference into posting text plus whatever
// title and company the source knows. A URL goes through the full fetch
// pipeline (and is persisted); a job id reads the stored record; pasted
// text is used as-is.
func ResolveJobText(ctx context.Context, st store.Store, in JobInput) (text, title, company string, err error) {
	in.Text = strings.TrimSpace(in.Text)

	set := 0
	for _, v := range []string{in.JobID, in.URL, in.Text} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", "", "", errors.New("provide a job via job_id, url or text")
	case set > 1:
		return "", "", "", errors.New("provide only one of job_id, url or text")
	}

	switch {
	case in.JobID != "":
		rec, err := st.GetJob(ctx, in.JobID)
		if err != nil {
			return "", "", "", err
		}
		if rec.RawText == "" {
			return "", "", "", errors.New("stored job " + in.JobID + " has no posting text")
		}
		return rec.RawText, rec.Title, rec.Company, nil

	case in.URL != "":
		res, err := jobs.FetchJob(ctx, st, jobs.FetchRequest{URL: in.URL})
		if err != nil {
			return "", "", "", err
		}
		return res.Job.RawText, res.Job.Title, res.Job.Company, nil
	}

	return in.Text, "", "", nil
}
