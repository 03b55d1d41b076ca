package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

// newFetchEnv wires a test server and a throwaway store. No LLM client
// is configured, so FetchJob runs in external-completion mode.
func newFetchEnv(t *testing.T, handler http.Handler) (store.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	engine.Init(engine.Config{
		DataDir:      t.TempDir(),
		HTTPClient:   srv.Client(),
		FetchTimeout: 5 * time.Second,
	})
	st, err := store.Open(context.Background())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, srv
}

func TestFetchJobFromURL(t *testing.T) {
	st, srv := newFetchEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePostingHTML))
	}))
	ctx := context.Background()

	jobURL := srv.URL + "/jobs/123"
	res, err := FetchJob(ctx, st, FetchRequest{URL: jobURL})
	if err != nil {
		t.Fatalf("FetchJob: %v", err)
	}

	if res.Status != StatusNeedsExternalCompletion {
		t.Errorf("status = %q, want %q", res.Status, StatusNeedsExternalCompletion)
	}
	if !strings.HasPrefix(res.JobID, "job_") || len(res.JobID) != 12 {
		t.Errorf("job_id = %q", res.JobID)
	}
	if res.Instruction == "" || !strings.Contains(res.Instruction, "parse_prompt") {
		t.Errorf("instruction = %q", res.Instruction)
	}
	if !strings.Contains(res.ParsePrompt, "❮JOB_POSTING_START❯") {
		t.Error("parse prompt should wrap the posting in delimiters")
	}
	if !strings.Contains(res.ParsePrompt, "billing infrastructure") {
		t.Error("parse prompt should carry the scraped description")
	}
	if res.RawTextLength == 0 {
		t.Error("raw_text_length should reflect the scraped text")
	}

	// Scraped hints land on the record even before structuring.
	if res.Job.Title != "Senior Go Engineer" || res.Job.Company != "Acme Corp" {
		t.Errorf("record hints = %q / %q", res.Job.Title, res.Job.Company)
	}

	// The raw posting is persisted so later stages work without a re-fetch.
	rec, err := st.GetJob(ctx, res.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if rec.URL != jobURL {
		t.Errorf("stored url = %q, want %q", rec.URL, jobURL)
	}
	if !strings.Contains(rec.RawText, "billing infrastructure") {
		t.Error("stored raw text missing description")
	}
}

func TestFetchJobFromText(t *testing.T) {
	st, _ := newFetchEnv(t, http.NotFoundHandler())
	ctx := context.Background()

	req := FetchRequest{
		Text:    "Hooli is hiring a Platform Engineer to run its Kubernetes fleet.",
		Title:   "Platform Engineer",
		Company: "Hooli",
	}
	res, err := FetchJob(ctx, st, req)
	if err != nil {
		t.Fatalf("FetchJob: %v", err)
	}

	if res.Job.Title != "Platform Engineer" || res.Job.Company != "Hooli" {
		t.Errorf("record = %q / %q", res.Job.Title, res.Job.Company)
	}
	if !strings.Contains(res.ParsePrompt, "Known title: Platform Engineer") {
		t.Error("prompt should carry the caller-supplied title hint")
	}

	// Same text, same id: re-fetching upserts instead of duplicating.
	res2, err := FetchJob(ctx, st, req)
	if err != nil {
		t.Fatalf("FetchJob again: %v", err)
	}
	if res2.JobID != res.JobID {
		t.Errorf("job_id changed across fetches: %q vs %q", res.JobID, res2.JobID)
	}
}

func TestFetchJobValidation(t *testing.T) {
	ctx := context.Background()

	_, err := FetchJob(ctx, nil, FetchRequest{URL: "https://x.test", Text: "pasted"})
	if err == nil || !strings.Contains(err.Error(), "not both") {
		t.Errorf("both inputs: err = %v", err)
	}

	if _, err := FetchJob(ctx, nil, FetchRequest{}); err == nil {
		t.Error("expected error when neither url nor text is given")
	}
}

func TestFetchJobEmptyDescription(t *testing.T) {
	st, srv := newFetchEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><script>no content here</script></body></html>`))
	}))

	_, err := FetchJob(context.Background(), st, FetchRequest{URL: srv.URL})
	if err == nil || !strings.Contains(err.Error(), "could not extract") {
		t.Errorf("err = %v", err)
	}
}

func TestJobID(t *testing.T) {
	a := JobID("https://boards.greenhouse.io/acme/jobs/1")
	if !strings.HasPrefix(a, "job_") || len(a) != 12 {
		t.Errorf("JobID = %q", a)
	}
	if JobID("same seed") != JobID("same seed") {
		t.Error("JobID should be deterministic")
	}
	if a == JobID("other seed") {
		t.Error("different seeds should give different ids")
	}
}

func TestDetectPlatform(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://boards.greenhouse.io/acme/jobs/123", "greenhouse"},
		{"https://jobs.lever.co/netflix/abc-def", "lever"},
		{"https://www.linkedin.com/jobs/view/99", "linkedin"},
		{"https://in.indeed.com/viewjob?jk=1", "indeed"},
		{"https://www.naukri.com/job-listings-1", "naukri"},
		{"https://remoteok.com/remote-jobs/12345", "remoteok"},
		{"https://remotive.com/remote-jobs/software-dev/1", "remotive"},
		{"https://news.ycombinator.com/item?id=44001234", "hn"},
		{"https://blog.ycombinator.com/post", ""},
		{"https://careers.example.com/role/7", ""},
		{"://not-a-url", ""},
	}
	for _, c := range cases {
		if got := detectPlatform(c.url); got != c.want {
			t.Errorf("detectPlatform(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestHintLine(t *testing.T) {
	if got := hintLine("Known title", "Go Engineer"); got != "Known title: Go Engineer" {
		t.Errorf("hintLine = %q", got)
	}
	if got := hintLine("Known title", ""); got != "" {
		t.Errorf("empty value should yield empty line, got %q", got)
	}
}

func TestMergeDetails(t *testing.T) {
	rec := &store.JobRecord{Title: "Scraped Title", Company: "Scraped Co"}
	mergeDetails(rec, &JobDetails{
		Title:       "Senior Go Engineer",
		Location:    "Remote (EU)",
		SalaryRange: "$150k-$180k",
	})

	if rec.Title != "Senior Go Engineer" {
		t.Errorf("title = %q, model output should win", rec.Title)
	}
	if rec.Company != "Scraped Co" {
		t.Errorf("company = %q, empty model field should not clobber", rec.Company)
	}
	if rec.Location != "Remote (EU)" || rec.Salary != "$150k-$180k" {
		t.Errorf("location/salary = %q / %q", rec.Location, rec.Salary)
	}
	if !strings.Contains(rec.JDExtractJSON, "Remote (EU)") {
		t.Error("structured JSON should be stored on the record")
	}
}
