package jobs

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleRemoteOKJSON = `[
	{"legal": "https://remoteok.com/legal"},
	{
		"slug": "remote-senior-go-developer-123",
		"position": "Senior Go Developer",
		"company": "Acme Corp",
		"tags": ["golang", "kubernetes", "docker"],
		"location": "Worldwide",
		"salary_min": 120000,
		"salary_max": 180000,
		"date": "2026-07-10T12:00:00+00:00",
		"url": "https://remoteok.com/remote-jobs/123"
	},
	{
		"slug": "remote-react-frontend-456",
		"position": "React Frontend Engineer",
		"company": "StartupXYZ",
		"tags": ["react", "typescript", "nextjs"],
		"location": "US Timezone",
		"salary_min": 0,
		"salary_max": 0,
		"date": "2026-07-08T10:00:00+00:00",
		"url": ""
	},
	{
		"slug": "",
		"position": "DevOps Engineer",
		"company": "CloudInc",
		"tags": ["aws", "terraform"],
		"location": "",
		"salary_min": 100000,
		"salary_max": 100000,
		"date": "",
		"url": ""
	}
]`

func TestParseRemoteOK(t *testing.T) {
	listings, err := parseRemoteOK([]byte(sampleRemoteOKJSON))
	if err != nil {
		t.Fatalf("parseRemoteOK error: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Senior Go Developer" {
		t.Errorf("title = %q, want %q", l.Title, "Senior Go Developer")
	}
	if l.Company != "Acme Corp" {
		t.Errorf("company = %q, want %q", l.Company, "Acme Corp")
	}
	if l.URL != "https://remoteok.com/remote-jobs/123" {
		t.Errorf("url = %q", l.URL)
	}
	if l.Source != "remoteok" {
		t.Errorf("source = %q, want remoteok", l.Source)
	}
	if l.Salary != "$120000 - $180000" {
		t.Errorf("salary = %q, want $120000 - $180000", l.Salary)
	}
	if l.Location != "Worldwide" {
		t.Errorf("location = %q, want Worldwide", l.Location)
	}
	if len(l.Tags) != 3 || l.Tags[0] != "golang" {
		t.Errorf("tags = %v, want [golang kubernetes docker]", l.Tags)
	}
	if l.Posted != "2026-07-10" {
		t.Errorf("posted = %q, want 2026-07-10", l.Posted)
	}

	// No salary, no URL: slug fallback, empty salary stays empty.
	l2 := listings[1]
	if l2.Salary != "" {
		t.Errorf("salary = %q, want empty", l2.Salary)
	}
	if l2.URL != "https://remoteok.com/remote-jobs/remote-react-frontend-456" {
		t.Errorf("url = %q, want slug-based URL", l2.URL)
	}

	// Same min/max collapses to a single figure.
	l3 := listings[2]
	if l3.Salary != "$100000" {
		t.Errorf("salary = %q, want $100000", l3.Salary)
	}
	if l3.Posted != "" {
		t.Errorf("posted = %q, want empty", l3.Posted)
	}
}

func TestParseRemoteOKErrors(t *testing.T) {
	if _, err := parseRemoteOK([]byte(`invalid json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}

	// Only the metadata element.
	listings, err := parseRemoteOK([]byte(`[{"legal": "ok"}]`))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected 0 listings, got %d", len(listings))
	}

	listings, err = parseRemoteOK([]byte(`[]`))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected 0 listings, got %d", len(listings))
	}
}

func TestFormatSalaryRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     string
	}{
		{"range", 100000, 150000, "$100000 - $150000"},
		{"same", 80000, 80000, "$80000"},
		{"zero", 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSalaryRange(tt.min, tt.max); got != tt.want {
				t.Errorf("formatSalaryRange(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

const sampleRemotiveJSON = `{
	"job-count": 3,
	"jobs": [
		{
			"url": "https://remotive.com/remote-jobs/software-dev/golang-backend-1",
			"title": "Golang Backend Engineer",
			"company_name": "Initech",
			"tags": ["golang", "aws"],
			"job_type": "full_time",
			"publication_date": "2026-07-12T08:30:00",
			"candidate_required_location": "Europe",
			"salary": "90k EUR"
		},
		{
			"url": "https://remotive.com/remote-jobs/software-dev/data-engineer-2",
			"title": "Data Engineer",
			"company_name": "Globex",
			"tags": [],
			"job_type": "",
			"publication_date": "",
			"candidate_required_location": "",
			"salary": ""
		},
		{
			"url": "",
			"title": "Missing URL Gets Skipped",
			"company_name": "Nowhere"
		}
	]
}`

func TestParseRemotive(t *testing.T) {
	listings, err := parseRemotive([]byte(sampleRemotiveJSON))
	if err != nil {
		t.Fatalf("parseRemotive error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Golang Backend Engineer" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Company != "Initech" {
		t.Errorf("company = %q, want Initech", l.Company)
	}
	if l.Source != "remotive" {
		t.Errorf("source = %q, want remotive", l.Source)
	}
	if l.Location != "Europe" {
		t.Errorf("location = %q, want Europe", l.Location)
	}
	if l.Salary != "90k EUR" {
		t.Errorf("salary = %q", l.Salary)
	}
	if l.Posted != "2026-07-12" {
		t.Errorf("posted = %q, want 2026-07-12", l.Posted)
	}
	// job_type lands in tags with the underscore flattened.
	if len(l.Tags) != 3 || l.Tags[2] != "full time" {
		t.Errorf("tags = %v, want [golang aws 'full time']", l.Tags)
	}

	l2 := listings[1]
	if l2.Location != "Worldwide" {
		t.Errorf("location = %q, want Worldwide default", l2.Location)
	}
	if l2.Posted != "" || l2.Salary != "" || len(l2.Tags) != 0 {
		t.Errorf("empty fields should stay empty: posted=%q salary=%q tags=%v", l2.Posted, l2.Salary, l2.Tags)
	}
}

func TestParseRemotiveError(t *testing.T) {
	if _, err := parseRemotive([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

const sampleGreenhouseJSON = `{
	"jobs": [
		{
			"id": 123456,
			"title": "Senior Go Engineer",
			"location": {"name": "Remote"},
			"updated_at": "2026-07-10T12:00:00Z",
			"absolute_url": "https://boards.greenhouse.io/stripe/jobs/123456",
			"departments": [{"name": "Engineering"}]
		},
		{
			"id": 789,
			"title": "Product Designer",
			"location": {"name": "New York, NY"},
			"updated_at": "",
			"absolute_url": ""
		}
	]
}`

func TestGreenhouseListings(t *testing.T) {
	var gr greenhouseResponse
	if err := json.Unmarshal([]byte(sampleGreenhouseJSON), &gr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	listings := greenhouseListings("stripe", gr.Jobs)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Senior Go Engineer" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Company != "stripe" {
		t.Errorf("company = %q, want stripe", l.Company)
	}
	if l.Source != "greenhouse" {
		t.Errorf("source = %q, want greenhouse", l.Source)
	}
	if l.Location != "Remote" {
		t.Errorf("location = %q, want Remote", l.Location)
	}
	if l.Posted != "2026-07-10" {
		t.Errorf("posted = %q, want 2026-07-10", l.Posted)
	}
	if len(l.Tags) != 1 || l.Tags[0] != "Engineering" {
		t.Errorf("tags = %v, want [Engineering]", l.Tags)
	}

	// Missing absolute_url falls back to the board URL.
	l2 := listings[1]
	if l2.URL != "https://boards.greenhouse.io/stripe/jobs/789" {
		t.Errorf("url = %q, want board fallback", l2.URL)
	}
	if l2.Posted != "" {
		t.Errorf("posted = %q, want empty", l2.Posted)
	}
}

const sampleLeverJSON = `[
	{
		"id": "abc-def-123",
		"text": "Platform Engineer",
		"hostedUrl": "https://jobs.lever.co/initech/abc-def-123",
		"categories": {
			"location": "San Francisco, CA",
			"team": "Infrastructure",
			"commitment": "Full-time"
		},
		"salaryRange": {"min": 150000, "max": 210000, "currency": "USD"},
		"createdAt": 1752105600000,
		"descriptionPlain": "Build and run the platform that powers everything.",
		"workplaceType": "remote"
	},
	{
		"id": "xyz-999",
		"text": "Support Engineer",
		"hostedUrl": "",
		"categories": {
			"location": "",
			"allLocations": ["Berlin", "Amsterdam"]
		},
		"salaryRange": {"min": 0, "max": 0, "currency": ""},
		"createdAt": 0,
		"descriptionPlain": ""
	}
]`

func TestLeverListings(t *testing.T) {
	var postings []leverPosting
	if err := json.Unmarshal([]byte(sampleLeverJSON), &postings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	listings := leverListings("initech", postings)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Platform Engineer" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Company != "initech" {
		t.Errorf("company = %q, want initech", l.Company)
	}
	if l.Source != "lever" {
		t.Errorf("source = %q, want lever", l.Source)
	}
	if l.Salary != "$150000-$210000 USD" {
		t.Errorf("salary = %q, want $150000-$210000 USD", l.Salary)
	}
	if l.Posted != "2025-07-10" {
		t.Errorf("posted = %q, want 2025-07-10", l.Posted)
	}
	if len(l.Tags) != 3 || l.Tags[0] != "Infrastructure" || l.Tags[2] != "remote" {
		t.Errorf("tags = %v, want [Infrastructure Full-time remote]", l.Tags)
	}
	if !strings.Contains(l.Snippet, "powers everything") {
		t.Errorf("snippet = %q", l.Snippet)
	}

	// No hostedUrl: board fallback; allLocations joined.
	l2 := listings[1]
	if l2.URL != "https://jobs.lever.co/initech/xyz-999" {
		t.Errorf("url = %q, want board fallback", l2.URL)
	}
	if l2.Location != "Berlin, Amsterdam" {
		t.Errorf("location = %q, want joined allLocations", l2.Location)
	}
	if l2.Salary != "" || l2.Posted != "" {
		t.Errorf("empty fields should stay empty: salary=%q posted=%q", l2.Salary, l2.Posted)
	}
}

func TestFormatLeverSalary(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		currency string
		want     string
	}{
		{"range", 150000, 210000, "USD", "$150000-$210000 USD"},
		{"single", 90000, 90000, "EUR", "$90000 EUR"},
		{"no currency", 90000, 0, "", "$90000"},
		{"unset", 0, 0, "USD", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLeverSalary(tt.min, tt.max, tt.currency); got != tt.want {
				t.Errorf("formatLeverSalary(%d, %d, %q) = %q, want %q", tt.min, tt.max, tt.currency, got, tt.want)
			}
		})
	}
}

func TestNormalizeSlugs(t *testing.T) {
	slugs := normalizeSlugs([]string{
		"Stripe",
		"https://boards.greenhouse.io/stripe/jobs/123",
		"https://jobs.lever.co/Netflix?foo=1",
		"  ",
		"netflix",
	})
	want := []string{"stripe", "netflix"}
	if len(slugs) != len(want) {
		t.Fatalf("slugs = %v, want %v", slugs, want)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("slugs[%d] = %q, want %q", i, slugs[i], want[i])
		}
	}
}

func TestNormalizeSlugsFanoutCap(t *testing.T) {
	in := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"}
	slugs := normalizeSlugs(in)
	if len(slugs) != maxSlugFanout {
		t.Errorf("expected fan-out capped at %d, got %d", maxSlugFanout, len(slugs))
	}
}

func TestPickBestTag(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"senior golang engineer", "golang"},
		{"remote python developer", "python"},
		{"senior engineer", "senior"},
		{"go developer", "go"},
	}
	for _, tt := range tests {
		fields := strings.Fields(tt.query)
		if got := pickBestTag(fields); got != tt.want {
			t.Errorf("pickBestTag(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

const sampleHNComment = `<p>Initech | Senior Platform Engineer | Remote (EU) | <a href="https:&#x2F;&#x2F;initech.example&#x2F;jobs">apply here</a></p><p>We&#x27;re building billing infrastructure in Go and Postgres.<br>Stack: Go, Kubernetes, Kafka.</p>`

func TestHTMLText(t *testing.T) {
	text := htmlText(sampleHNComment)
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), text)
	}
	if !strings.HasPrefix(lines[0], "Initech | Senior Platform Engineer") {
		t.Errorf("first line = %q", lines[0])
	}
	// Entities decoded by the parser.
	if !strings.Contains(text, "We're building") {
		t.Errorf("entity not decoded: %q", text)
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "&#x27;") {
		t.Errorf("markup leaked through: %q", text)
	}
}

func TestHNCommentListing(t *testing.T) {
	l, ok := hnCommentListing(44001234, sampleHNComment, 1752105600)
	if !ok {
		t.Fatal("expected a listing")
	}
	if l.URL != "https://news.ycombinator.com/item?id=44001234" {
		t.Errorf("url = %q", l.URL)
	}
	if l.Source != "hn" {
		t.Errorf("source = %q, want hn", l.Source)
	}
	if l.Company != "Initech" {
		t.Errorf("company = %q, want Initech", l.Company)
	}
	if !strings.HasPrefix(l.Title, "Initech | Senior Platform Engineer") {
		t.Errorf("title = %q", l.Title)
	}
	if l.Posted != "2025-07-10" {
		t.Errorf("posted = %q, want 2025-07-10", l.Posted)
	}
	if !strings.Contains(l.Snippet, "billing infrastructure") {
		t.Errorf("snippet = %q", l.Snippet)
	}

	if _, ok := hnCommentListing(1, "", 0); ok {
		t.Error("empty comment should not produce a listing")
	}
}

func TestHNCommentListingLongTitle(t *testing.T) {
	long := strings.Repeat("x", 200)
	l, ok := hnCommentListing(7, "<p>"+long+"</p>", 0)
	if !ok {
		t.Fatal("expected a listing")
	}
	if got := len([]rune(l.Title)); got > 83 {
		t.Errorf("title length = %d runes, want capped at 80 plus ellipsis", got)
	}
	if !strings.HasSuffix(l.Title, "...") {
		t.Errorf("long title should be truncated: %q", l.Title)
	}
}
