package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Listing is one search hit from a job board.
type Listing struct {
	Title    string   `json:"title"`
	Company  string   `json:"company,omitempty"`
	URL      string   `json:"url"`
	Source   string   `json:"source"`
	Location string   `json:"location,omitempty"`
	Salary   string   `json:"salary,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Posted   string   `json:"posted,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
}

// SearchRequest selects what to search. Companies carries board slugs
// (or full board URLs) for platforms without a global search endpoint.
type SearchRequest struct {
	Query          string
	Location       string
	Platforms      []string
	Companies      []string
	MaxPerPlatform int
}

// SearchResult aggregates listings across boards. Errors maps platform
// name to what went wrong there; partial results are still returned.
type SearchResult struct {
	Query             string            `json:"query"`
	Location          string            `json:"location,omitempty"`
	PlatformsSearched []string          `json:"platforms_searched"`
	TotalResults      int               `json:"total_results"`
	Listings          []Listing         `json:"listings"`
	Errors            map[string]string `json:"errors,omitempty"`
}

// boardFetcher pulls up to limit listings for one platform.
type boardFetcher func(ctx context.Context, req SearchRequest, limit int) ([]Listing, error)

// boards is the platform registry. Browser-driven boards (LinkedIn,
// Indeed, Naukri) are deliberately absent: these block plain HTTP
// clients, so only public-API boards are wired.
var boards = map[string]boardFetcher{
	"greenhouse": searchGreenhouse,
	"lever":      searchLever,
	"remoteok":   searchRemoteOK,
	"remotive":   searchRemotive,
	"hn":         searchHNJobs,
}

// SupportedPlatforms lists registry names, sorted.
func SupportedPlatforms() []string {
	names := make([]string, 0, len(boards))
	for name := range boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	defaultPerPlatform = 10
	maxPerPlatformCap  = 30
	maxTotalResults    = 50
)

// SearchJobs fans out to the requested boards in parallel and merges the
// listings. Per-board failures land in Errors, never fail the search.
// Error-free results are cached (15 min tier, §cache).
func SearchJobs(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, errors.New("jobs: search query cannot be empty")
	}

	limit := req.MaxPerPlatform
	if limit <= 0 || limit > maxPerPlatformCap {
		limit = defaultPerPlatform
	}
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = SupportedPlatforms()
	}

	engine.IncrJobSearches()

	key := searchCacheKey(req, platforms, limit)
	if cached, ok := engine.CacheLoadJSON[SearchResult](ctx, key); ok {
		return &cached, nil
	}

	res := &SearchResult{
		Query:    req.Query,
		Location: req.Location,
		Errors:   make(map[string]string),
	}

	type boardResult struct {
		platform string
		listings []Listing
		err      error
	}
	ch := make(chan boardResult, len(platforms))
	launched := 0
	for _, name := range platforms {
		fetch, ok := boards[name]
		if !ok {
			res.Errors[name] = fmt.Sprintf("unknown platform %q, supported: %s",
				name, strings.Join(SupportedPlatforms(), ", "))
			continue
		}
		res.PlatformsSearched = append(res.PlatformsSearched, name)
		launched++
		go func(name string, fetch boardFetcher) {
			var listings []Listing
			err := engine.TrackOperation(ctx, "board:"+name, func(ctx context.Context) error {
				var err error
				listings, err = fetch(ctx, req, limit)
				return err
			})
			ch <- boardResult{name, listings, err}
		}(name, fetch)
	}

	byPlatform := make(map[string][]Listing, launched)
	for i := 0; i < launched; i++ {
		r := <-ch
		if r.err != nil {
			slog.Warn("job board search failed",
				slog.String("platform", r.platform),
				slog.Any("error", r.err))
			res.Errors[r.platform] = r.err.Error()
			continue
		}
		byPlatform[r.platform] = r.listings
	}

	res.Listings = mergeListings(res.PlatformsSearched, byPlatform)
	res.TotalResults = len(res.Listings)

	if len(res.Errors) == 0 {
		res.Errors = nil
		engine.CacheStoreJSON(ctx, key, *res)
	}

	slog.Info("job search complete",
		slog.String("query", req.Query),
		slog.Int("platforms", launched),
		slog.Int("results", res.TotalResults))
	return res, nil
}

// mergeListings flattens per-board results in requested-platform order
// so output is deterministic. Dedup is by URL, then by canonical
// title+company so the same posting surfaced by two boards appears
// once; the merged list is capped at maxTotalResults.
func mergeListings(order []string, byPlatform map[string][]Listing) []Listing {
	var merged []Listing
	seenURL := make(map[string]bool)
	seenJob := make(map[string]bool)
	for _, name := range order {
		for _, l := range byPlatform[name] {
			if l.URL != "" {
				if seenURL[l.URL] {
					continue
				}
				seenURL[l.URL] = true
			}
			if l.Title != "" && l.Company != "" {
				key := engine.CanonicalJobKey(l.Title, l.Company)
				if seenJob[key] {
					continue
				}
				seenJob[key] = true
			}
			merged = append(merged, l)
			if len(merged) >= maxTotalResults {
				return merged
			}
		}
	}
	return merged
}

func searchCacheKey(req SearchRequest, platforms []string, limit int) string {
	parts := []string{
		"search_jobs", req.Query, req.Location, strconv.Itoa(limit),
		strings.Join(platforms, ","), strings.Join(req.Companies, ","),
	}
	return engine.CacheKey(parts...)
}

// filterListings keeps listings matching the query: AND across terms,
// falling back to OR when the AND pass matches nothing.
func filterListings(listings []Listing, query string) []Listing {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return listings
	}

	var filtered []Listing
	for _, l := range listings {
		if matchesAll(listingHaystack(l), keywords) {
			filtered = append(filtered, l)
		}
	}
	if len(filtered) == 0 {
		for _, l := range listings {
			if matchesAny(listingHaystack(l), keywords) {
				filtered = append(filtered, l)
			}
		}
	}
	return filtered
}

func listingHaystack(l Listing) string {
	return strings.ToLower(l.Title + " " + l.Company + " " + l.Location + " " +
		strings.Join(l.Tags, " ") + " " + l.Snippet)
}

func matchesAll(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}

func matchesAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func capListings(listings []Listing, limit int) []Listing {
	if len(listings) > limit {
		return listings[:limit]
	}
	return listings
}
