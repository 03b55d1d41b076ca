package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Public board API endpoints.
const (
	greenhouseBoardsAPI = "https://boards-api.greenhouse.io/v1/boards/%s/jobs"
	leverAPIBase        = "https://api.lever.co/v0/postings/%s?mode=json"
	remoteOKAPI         = "https://remoteok.com/api"
	remotiveAPI         = "https://remotive.com/api/remote-jobs"
	hnFirebaseBase      = "https://hacker-news.firebaseio.com/v0"
)

// maxSlugFanout caps how many company boards one search hits.
const maxSlugFanout = 5

const maxBoardBodyBytes = 2 * 1024 * 1024

// fetchBoardJSON GETs a board API with the bot UA and transport retries.
// 404 means "no such board" and comes back as (nil, nil).
func fetchBoardJSON(ctx context.Context, apiURL string) ([]byte, error) {
	if engine.Cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)
	req.Header.Set("Accept", "application/json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBoardBodyBytes))
}

// clientFilterQuery folds the location into the keyword filter for
// boards that cannot filter server-side.
func clientFilterQuery(req SearchRequest) string {
	return strings.TrimSpace(req.Query + " " + req.Location)
}

// --- Greenhouse ---

// greenhouseSlugRe extracts the company slug from boards.greenhouse.io URLs.
var greenhouseSlugRe = regexp.MustCompile(`boards\.greenhouse\.io/([^/?#]+)`)

type greenhouseJob struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	UpdatedAt   string `json:"updated_at"`
	AbsoluteURL string `json:"absolute_url"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments,omitempty"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// searchGreenhouse hits each company's public board API in parallel.
// Greenhouse has no global search, so company slugs must be supplied.
func searchGreenhouse(ctx context.Context, req SearchRequest, limit int) ([]Listing, error) {
	engine.IncrGreenhouseRequests()

	slugs := normalizeSlugs(req.Companies)
	if len(slugs) == 0 {
		return nil, errors.New(`greenhouse needs company board slugs, e.g. companies=["stripe"]`)
	}

	type slugResult struct {
		slug string
		jobs []greenhouseJob
		err  error
	}
	ch := make(chan slugResult, len(slugs))
	for _, slug := range slugs {
		go func(s string) {
			jobs, err := fetchGreenhouseBoard(ctx, s)
			ch <- slugResult{s, jobs, err}
		}(slug)
	}

	var listings []Listing
	for range slugs {
		r := <-ch
		if r.err != nil {
			slog.Debug("greenhouse board fetch failed",
				slog.String("slug", r.slug), slog.Any("error", r.err))
			continue
		}
		listings = append(listings, greenhouseListings(r.slug, r.jobs)...)
	}

	listings = filterListings(listings, clientFilterQuery(req))
	slog.Debug("greenhouse search complete",
		slog.Int("boards", len(slugs)), slog.Int("results", len(listings)))
	return capListings(listings, limit), nil
}

func greenhouseListings(slug string, jobs []greenhouseJob) []Listing {
	listings := make([]Listing, 0, len(jobs))
	for _, job := range jobs {
		jobURL := job.AbsoluteURL
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://boards.greenhouse.io/%s/jobs/%d", slug, job.ID)
		}
		l := Listing{
			Title:    job.Title,
			Company:  slug,
			URL:      jobURL,
			Source:   "greenhouse",
			Location: job.Location.Name,
		}
		if len(job.UpdatedAt) >= 10 {
			l.Posted = job.UpdatedAt[:10]
		}
		if len(job.Departments) > 0 {
			l.Tags = []string{job.Departments[0].Name}
		}
		listings = append(listings, l)
	}
	return listings
}

func fetchGreenhouseBoard(ctx context.Context, slug string) ([]greenhouseJob, error) {
	body, err := fetchBoardJSON(ctx, fmt.Sprintf(greenhouseBoardsAPI, slug))
	if err != nil || body == nil {
		return nil, err
	}
	var gr greenhouseResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("greenhouse parse: %w", err)
	}
	return gr.Jobs, nil
}

// --- Lever ---

// leverSlugRe extracts the company slug from jobs.lever.co URLs.
var leverSlugRe = regexp.MustCompile(`jobs\.lever\.co/([^/?#]+)`)

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	Categories struct {
		Location     string   `json:"location"`
		AllLocations []string `json:"allLocations"`
		Team         string   `json:"team"`
		Commitment   string   `json:"commitment"`
	} `json:"categories"`
	SalaryRange struct {
		Min      int    `json:"min"`
		Max      int    `json:"max"`
		Currency string `json:"currency"`
	} `json:"salaryRange"`
	CreatedAt        int64  `json:"createdAt"`
	DescriptionPlain string `json:"descriptionPlain"`
	WorkplaceType    string `json:"workplaceType"`
}

// searchLever hits each company's public postings API in parallel.
func searchLever(ctx context.Context, req SearchRequest, limit int) ([]Listing, error) {
	engine.IncrLeverRequests()

	slugs := normalizeSlugs(req.Companies)
	if len(slugs) == 0 {
		return nil, errors.New(`lever needs company board slugs, e.g. companies=["netflix"]`)
	}

	type slugResult struct {
		slug     string
		postings []leverPosting
		err      error
	}
	ch := make(chan slugResult, len(slugs))
	for _, slug := range slugs {
		go func(s string) {
			postings, err := fetchLeverBoard(ctx, s)
			ch <- slugResult{s, postings, err}
		}(slug)
	}

	var listings []Listing
	for range slugs {
		r := <-ch
		if r.err != nil {
			slog.Debug("lever board fetch failed",
				slog.String("slug", r.slug), slog.Any("error", r.err))
			continue
		}
		listings = append(listings, leverListings(r.slug, r.postings)...)
	}

	listings = filterListings(listings, clientFilterQuery(req))
	slog.Debug("lever search complete",
		slog.Int("boards", len(slugs)), slog.Int("results", len(listings)))
	return capListings(listings, limit), nil
}

func leverListings(slug string, postings []leverPosting) []Listing {
	listings := make([]Listing, 0, len(postings))
	for _, p := range postings {
		jobURL := p.HostedURL
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://jobs.lever.co/%s/%s", slug, p.ID)
		}
		loc := p.Categories.Location
		if loc == "" && len(p.Categories.AllLocations) > 0 {
			loc = strings.Join(p.Categories.AllLocations, ", ")
		}
		l := Listing{
			Title:    p.Text,
			Company:  slug,
			URL:      jobURL,
			Source:   "lever",
			Location: loc,
			Salary:   formatLeverSalary(p.SalaryRange.Min, p.SalaryRange.Max, p.SalaryRange.Currency),
			Snippet:  engine.TruncateAtWord(p.DescriptionPlain, 300),
		}
		if p.CreatedAt > 0 {
			l.Posted = time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02")
		}
		for _, tag := range []string{p.Categories.Team, p.Categories.Commitment, p.WorkplaceType} {
			if tag != "" {
				l.Tags = append(l.Tags, tag)
			}
		}
		listings = append(listings, l)
	}
	return listings
}

func fetchLeverBoard(ctx context.Context, slug string) ([]leverPosting, error) {
	body, err := fetchBoardJSON(ctx, fmt.Sprintf(leverAPIBase, slug))
	if err != nil || body == nil {
		return nil, err
	}
	var postings []leverPosting
	if err := json.Unmarshal(body, &postings); err != nil {
		return nil, fmt.Errorf("lever parse: %w", err)
	}
	return postings, nil
}

func formatLeverSalary(min, max int, currency string) string {
	if min <= 0 {
		return ""
	}
	s := fmt.Sprintf("$%d", min)
	if max > min {
		s = fmt.Sprintf("$%d-$%d", min, max)
	}
	return strings.TrimSpace(s + " " + currency)
}

// normalizeSlugs cleans company identifiers: full board URLs are reduced
// to their slug, everything lowercased, deduplicated and fan-out capped.
func normalizeSlugs(companies []string) []string {
	seen := make(map[string]bool)
	var slugs []string
	for _, c := range companies {
		slug := strings.ToLower(strings.TrimSpace(c))
		if m := greenhouseSlugRe.FindStringSubmatch(slug); m != nil {
			slug = m[1]
		} else if m := leverSlugRe.FindStringSubmatch(slug); m != nil {
			slug = m[1]
		}
		slug = strings.Trim(slug, "/")
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}
	if len(slugs) > maxSlugFanout {
		slugs = slugs[:maxSlugFanout]
	}
	return slugs
}

// --- RemoteOK ---

type remoteOKJob struct {
	Slug      string   `json:"slug"`
	Position  string   `json:"position"`
	Company   string   `json:"company"`
	Tags      []string `json:"tags"`
	Location  string   `json:"location"`
	SalaryMin int      `json:"salary_min"`
	SalaryMax int      `json:"salary_max"`
	Date      string   `json:"date"`
	URL       string   `json:"url"`
}

// searchRemoteOK queries the RemoteOK JSON API. The API filters by a
// single tag, so the most specific query word is used as the tag and the
// rest is matched client-side.
func searchRemoteOK(ctx context.Context, req SearchRequest, limit int) ([]Listing, error) {
	engine.IncrRemoteOKRequests()

	fields := strings.Fields(strings.ToLower(req.Query))
	tag := pickBestTag(fields)

	u, err := url.Parse(remoteOKAPI)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("tag", tag)
	u.RawQuery = q.Encode()

	body, err := fetchBoardJSON(ctx, u.String())
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	listings, err := parseRemoteOK(body)
	if err != nil {
		return nil, err
	}
	listings = filterListings(listings, clientFilterQuery(req))
	slog.Debug("remoteok search complete",
		slog.String("tag", tag), slog.Int("results", len(listings)))
	return capListings(listings, limit), nil
}

// parseRemoteOK parses the RemoteOK JSON array, skipping element [0]
// (API legal notice, not a job).
func parseRemoteOK(body []byte) ([]Listing, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("remoteok parse: %w", err)
	}
	if len(raw) <= 1 {
		return nil, nil
	}

	var listings []Listing
	for _, item := range raw[1:] {
		var j remoteOKJob
		if err := json.Unmarshal(item, &j); err != nil {
			continue
		}
		if j.Position == "" {
			continue
		}
		jobURL := j.URL
		if jobURL == "" && j.Slug != "" {
			jobURL = "https://remoteok.com/remote-jobs/" + j.Slug
		}
		l := Listing{
			Title:    j.Position,
			Company:  j.Company,
			URL:      jobURL,
			Source:   "remoteok",
			Location: j.Location,
			Salary:   formatSalaryRange(j.SalaryMin, j.SalaryMax),
			Tags:     j.Tags,
		}
		if t, err := time.Parse(time.RFC3339, j.Date); err == nil {
			l.Posted = t.UTC().Format("2006-01-02")
		} else {
			l.Posted = j.Date
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func formatSalaryRange(min, max int) string {
	switch {
	case min == 0 && max == 0:
		return ""
	case min == max:
		return fmt.Sprintf("$%d", max)
	default:
		return fmt.Sprintf("$%d - $%d", min, max)
	}
}

// boardStopWords are query words that make poor single-tag filters.
var boardStopWords = map[string]bool{
	"senior": true, "junior": true, "lead": true, "staff": true,
	"principal": true, "remote": true, "job": true, "jobs": true,
	"developer": true, "engineer": true, "position": true, "role": true,
	"and": true, "or": true, "the": true, "for": true, "with": true,
}

// pickBestTag picks the most specific query word for single-tag APIs,
// skipping generic title words in favour of tech names.
func pickBestTag(fields []string) string {
	for _, f := range fields {
		if !boardStopWords[f] && len(f) > 2 {
			return f
		}
	}
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// --- Remotive ---

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
}

// searchRemotive queries the Remotive public API; the search param
// filters server-side, no auth required.
func searchRemotive(ctx context.Context, req SearchRequest, limit int) ([]Listing, error) {
	engine.IncrRemotiveRequests()

	u, err := url.Parse(remotiveAPI)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("search", req.Query)
	u.RawQuery = q.Encode()

	body, err := fetchBoardJSON(ctx, u.String())
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	listings, err := parseRemotive(body)
	if err != nil {
		return nil, err
	}
	if req.Location != "" {
		listings = filterListings(listings, req.Location)
	}
	slog.Debug("remotive search complete", slog.Int("results", len(listings)))
	return capListings(listings, limit), nil
}

func parseRemotive(body []byte) ([]Listing, error) {
	var rr remotiveResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("remotive parse: %w", err)
	}

	var listings []Listing
	for _, j := range rr.Jobs {
		if j.Title == "" || j.URL == "" {
			continue
		}
		location := j.CandidateRequiredLocation
		if location == "" {
			location = "Worldwide"
		}
		l := Listing{
			Title:    j.Title,
			Company:  j.CompanyName,
			URL:      j.URL,
			Source:   "remotive",
			Location: location,
			Salary:   j.Salary,
			Tags:     j.Tags,
		}
		if jt := strings.ReplaceAll(j.JobType, "_", " "); jt != "" {
			l.Tags = append(l.Tags, jt)
		}
		if len(j.PublicationDate) >= 10 {
			l.Posted = j.PublicationDate[:10]
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// --- HN Who is Hiring ---

// whoIsHiringCache holds the current thread id. The thread is posted
// monthly, so a 6h cache is plenty.
var whoIsHiringCache struct {
	mu        sync.Mutex
	threadID  int64
	fetchedAt time.Time
}

const whoIsHiringCacheTTL = 6 * time.Hour

const maxHNCommentChars = 1200

// hnItem is the Firebase HN API item shape (story or comment).
type hnItem struct {
	ID      int64   `json:"id"`
	Text    string  `json:"text"`
	Kids    []int64 `json:"kids"`
	Time    int64   `json:"time"`
	Dead    bool    `json:"dead"`
	Deleted bool    `json:"deleted"`
}

// searchHNJobs searches the latest "Ask HN: Who is hiring?" thread.
// Primary path searches the whole thread through Algolia in one call;
// if that yields nothing the top comments are pulled from Firebase and
// filtered locally.
func searchHNJobs(ctx context.Context, req SearchRequest, limit int) ([]Listing, error) {
	engine.IncrHNJobsRequests()

	threadID, err := findWhoIsHiringThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("find who-is-hiring thread: %w", err)
	}

	listings, err := searchHNThread(ctx, threadID, req.Query, limit*2)
	if err != nil {
		slog.Debug("hn thread search failed, falling back to firebase", slog.Any("error", err))
		listings = nil
	}
	if len(listings) == 0 {
		listings, err = fetchHNThreadComments(ctx, threadID, limit*4)
		if err != nil {
			return nil, fmt.Errorf("fetch thread comments: %w", err)
		}
		listings = filterListings(listings, clientFilterQuery(req))
	}

	slog.Debug("hn search complete",
		slog.Int64("thread", threadID), slog.Int("results", len(listings)))
	return capListings(listings, limit), nil
}

// findWhoIsHiringThread locates the most recent monthly thread through
// the Algolia by-date index, cached for 6h.
func findWhoIsHiringThread(ctx context.Context) (int64, error) {
	whoIsHiringCache.mu.Lock()
	defer whoIsHiringCache.mu.Unlock()

	if whoIsHiringCache.threadID != 0 && time.Since(whoIsHiringCache.fetchedAt) < whoIsHiringCacheTTL {
		return whoIsHiringCache.threadID, nil
	}

	u, err := url.Parse(engine.HNAlgoliaByDateURL)
	if err != nil {
		return 0, err
	}
	q := u.Query()
	q.Set("query", "Ask HN: Who is hiring?")
	q.Set("tags", "story,author_whoishiring")
	q.Set("hitsPerPage", "1")
	u.RawQuery = q.Encode()

	body, err := fetchBoardJSON(ctx, u.String())
	if err != nil {
		return 0, err
	}
	var data engine.HNAlgoliaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, err
	}
	if len(data.Hits) == 0 {
		return 0, errors.New("no who-is-hiring thread found")
	}
	threadID, err := strconv.ParseInt(data.Hits[0].ObjectID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse thread id: %w", err)
	}

	whoIsHiringCache.threadID = threadID
	whoIsHiringCache.fetchedAt = time.Now()
	slog.Debug("found who-is-hiring thread", slog.Int64("id", threadID))
	return threadID, nil
}

// searchHNThread keyword-searches one thread's comments via Algolia.
// A 400-comment thread comes back in a single call.
func searchHNThread(ctx context.Context, threadID int64, query string, limit int) ([]Listing, error) {
	if query == "" {
		return nil, nil
	}

	u, err := url.Parse(engine.HNAlgoliaURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("tags", fmt.Sprintf("comment,story_%d", threadID))
	q.Set("hitsPerPage", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	body, err := fetchBoardJSON(ctx, u.String())
	if err != nil {
		return nil, err
	}
	var data engine.HNAlgoliaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	var listings []Listing
	for _, hit := range data.Hits {
		id, err := strconv.ParseInt(hit.ObjectID, 10, 64)
		if err != nil {
			continue
		}
		l, ok := hnCommentListing(id, hit.CommentText, hit.CreatedAtI)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// fetchHNThreadComments pulls top-level comments straight from Firebase,
// at most 10 in flight, order preserved.
func fetchHNThreadComments(ctx context.Context, threadID int64, limit int) ([]Listing, error) {
	thread, err := fetchHNItem(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}
	if len(thread.Kids) == 0 {
		return nil, errors.New("thread has no comments")
	}

	fetch := limit
	if fetch > len(thread.Kids) {
		fetch = len(thread.Kids)
	}

	type result struct {
		idx  int
		item *hnItem
	}
	ch := make(chan result, fetch)
	sem := make(chan struct{}, 10)

	for i := 0; i < fetch; i++ {
		go func(i int, id int64) {
			sem <- struct{}{}
			defer func() { <-sem }()

			// Stagger batches so Firebase is not hammered.
			time.Sleep(time.Duration(i/10) * 200 * time.Millisecond)

			item, err := fetchHNItem(ctx, id)
			if err != nil {
				ch <- result{i, nil}
				return
			}
			ch <- result{i, item}
		}(i, thread.Kids[i])
	}

	raw := make([]*hnItem, fetch)
	for i := 0; i < fetch; i++ {
		r := <-ch
		raw[r.idx] = r.item
	}

	var listings []Listing
	for _, item := range raw {
		if item == nil || item.Dead || item.Deleted || item.Text == "" {
			continue
		}
		if l, ok := hnCommentListing(item.ID, item.Text, item.Time); ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// fetchHNItem fetches a single item from the HN Firebase API.
func fetchHNItem(ctx context.Context, id int64) (*hnItem, error) {
	itemURL := fmt.Sprintf("%s/item/%d.json", hnFirebaseBase, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}
	var item hnItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// hnCommentListing turns one hiring comment into a Listing. Posts open
// with "Company | Role | Location | ..." so the first line is the title
// and its first segment the company.
func hnCommentListing(id int64, rawHTML string, createdAt int64) (Listing, bool) {
	text := htmlText(rawHTML)
	if text == "" {
		return Listing{}, false
	}
	text = engine.TruncateRunes(text, maxHNCommentChars, "...")

	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		firstLine = text[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)

	l := Listing{
		Title:   engine.TruncateRunes(firstLine, 80, "..."),
		URL:     fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id),
		Source:  "hn",
		Snippet: text,
	}
	if parts := strings.SplitN(firstLine, "|", 2); len(parts) == 2 {
		l.Company = strings.TrimSpace(parts[0])
	}
	if createdAt > 0 {
		l.Posted = time.Unix(createdAt, 0).UTC().Format("2006-01-02")
	}
	return l, true
}

// htmlText flattens HN comment HTML into plain text, breaking lines on
// <p> and <br> so the "Company | Role | Location" first line survives.
// Entities are decoded by the parser.
func htmlText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return engine.CleanHTML(fragment)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "p" || n.Data == "br"):
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	var out []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
