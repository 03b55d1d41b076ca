package jobs

import (
	"strings"
	"testing"
)

const samplePostingHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Careers</title>
  <script>window.tracker = "noise";</script>
  <style>.hidden { display: none; }</style>
</head>
<body>
  <nav>Home | Jobs | About</nav>
  <h1 class="job-title">Senior Go Engineer</h1>
  <span class="company-name">Acme Corp</span>
  <div class="job-description">
    <p>We build billing infrastructure in Go.</p>
    <h2>Requirements</h2>
    <ul>
      <li>Go</li>
      <li>PostgreSQL</li>
    </ul>
  </div>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestExtractJobPage(t *testing.T) {
	pc, err := extractJobPage([]byte(samplePostingHTML))
	if err != nil {
		t.Fatalf("extractJobPage: %v", err)
	}

	if pc.Title != "Senior Go Engineer" {
		t.Errorf("title = %q", pc.Title)
	}
	if pc.Company != "Acme Corp" {
		t.Errorf("company = %q", pc.Company)
	}

	// Container content comes back as markdown.
	if !strings.Contains(pc.Description, "billing infrastructure in Go") {
		t.Errorf("description missing body text: %q", pc.Description)
	}
	if !strings.Contains(pc.Description, "## Requirements") {
		t.Errorf("description should keep headings as markdown: %q", pc.Description)
	}
	if !strings.Contains(pc.Description, "- Go") || !strings.Contains(pc.Description, "- PostgreSQL") {
		t.Errorf("description should keep list items: %q", pc.Description)
	}

	// Page chrome never leaks into the description.
	for _, noise := range []string{"window.tracker", "display: none", "Home | Jobs", "Copyright"} {
		if strings.Contains(pc.Description, noise) {
			t.Errorf("description contains chrome %q", noise)
		}
	}
}

func TestExtractJobPageFallbacks(t *testing.T) {
	// No recognised container: main is used. No .job-title: first h1 wins.
	html := `<html><head><title>Jobs at Initech</title></head><body>
	  <main><h1>Backend Developer</h1><p>Work on TPS report pipelines.</p></main>
	</body></html>`
	pc, err := extractJobPage([]byte(html))
	if err != nil {
		t.Fatalf("extractJobPage: %v", err)
	}
	if pc.Title != "Backend Developer" {
		t.Errorf("title = %q, want first h1", pc.Title)
	}
	if pc.Company != "" {
		t.Errorf("company = %q, want empty", pc.Company)
	}
	if !strings.Contains(pc.Description, "TPS report pipelines") {
		t.Errorf("description = %q", pc.Description)
	}

	// No h1 at all: the <title> tag is the last resort.
	pc, err = extractJobPage([]byte(`<html><head><title>Platform Engineer - Hooli</title></head><body><p>hi</p></body></html>`))
	if err != nil {
		t.Fatalf("extractJobPage: %v", err)
	}
	if pc.Title != "Platform Engineer - Hooli" {
		t.Errorf("title = %q, want <title> fallback", pc.Title)
	}
}

func TestExtractJobPageEmpty(t *testing.T) {
	pc, err := extractJobPage([]byte(`<html><body><script>only noise</script></body></html>`))
	if err != nil {
		t.Fatalf("extractJobPage: %v", err)
	}
	if pc.Description != "" {
		t.Errorf("description = %q, want empty", pc.Description)
	}
}

func TestCollapseSpace(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Senior   Go\n\tEngineer  ", "Senior Go Engineer"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := collapseSpace(c.in); got != c.want {
			t.Errorf("collapseSpace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
