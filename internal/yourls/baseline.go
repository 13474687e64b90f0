package yourls

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// maxSearchLimit caps every bulk read regardless of what the caller asks
// for, to bound cost against large remote databases.
const maxSearchLimit = 1000

// ShortURL is one keyword→destination mapping as reported by the API.
type ShortURL struct {
	Keyword  string `json:"keyword"`
	ShortURL string `json:"shorturl"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
}

// Link is a mapping plus its stats fields, as returned by bulk reads.
type Link struct {
	Keyword   string `json:"keyword"`
	ShortURL  string `json:"shorturl"`
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	IP        string `json:"ip,omitempty"`
	Clicks    int    `json:"clicks"`
}

// DBStats is the instance-wide counters from action=db-stats.
type DBStats struct {
	TotalLinks  int `json:"total_links"`
	TotalClicks int `json:"total_clicks"`
}

// validateDestination rejects malformed URLs before any network call.
func validateDestination(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return newValidationError("url must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return newValidationError("invalid url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return newValidationError("unsupported url scheme %q (only http/https)", u.Scheme)
	}
	if u.Host == "" {
		return newValidationError("url %q has no host", raw)
	}
	return nil
}

// Shorten creates a keyword→destination mapping via action=shorturl.
// force passes force=1 straight through for installations running a
// duplicate-allowing plugin; the core server ignores unknown params, so
// sending it is always safe.
//
// Fails with KindConflict when the keyword already maps elsewhere, and with
// KindRemote code "error:url" when the destination is already shortened and
// no duplicate plugin honors force.
func (c *Client) Shorten(ctx context.Context, dest, keyword, title string, force bool) (*ShortURL, error) {
	return c.shorten(ctx, dest, keyword, title, force, false)
}

// shorten is Shorten plus the chain-guard bypass flag, which only the
// duplicate orchestrator sets.
func (c *Client) shorten(ctx context.Context, dest, keyword, title string, force, bypassChainGuard bool) (*ShortURL, error) {
	if err := validateDestination(dest); err != nil {
		return nil, err
	}
	params := map[string]string{"url": dest}
	if keyword != "" {
		params["keyword"] = keyword
	}
	if title != "" {
		params["title"] = title
	}
	if force {
		params["force"] = "1"
	}
	if bypassChainGuard {
		params["bypass"] = "1"
	}
	raw, err := c.do(ctx, "shorturl", params)
	if err != nil {
		return nil, err
	}
	return parseShortenResponse(raw, dest, keyword, title), nil
}

func parseShortenResponse(raw map[string]any, dest, keyword, title string) *ShortURL {
	s := &ShortURL{
		ShortURL: strField(raw, "shorturl"),
		URL:      dest,
		Keyword:  keyword,
		Title:    title,
	}
	if t := strField(raw, "title"); t != "" {
		s.Title = t
	}
	if u, ok := raw["url"].(map[string]any); ok {
		if k := strField(u, "keyword"); k != "" {
			s.Keyword = k
		}
		if d := strField(u, "url"); d != "" {
			s.URL = d
		}
		if t := strField(u, "title"); t != "" {
			s.Title = t
		}
	}
	if s.Keyword == "" && s.ShortURL != "" {
		s.Keyword = keywordFromShortURL(s.ShortURL)
	}
	return s
}

// Expand resolves a keyword (or full short URL) to its mapping via
// action=expand. A missing keyword comes back as KindNotFound, an expected
// outcome rather than an anomaly; fallbacks use it constantly to test existence.
func (c *Client) Expand(ctx context.Context, keyword string) (*ShortURL, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}
	raw, err := c.do(ctx, "expand", map[string]string{"shorturl": keyword})
	if err != nil {
		return nil, err
	}
	return &ShortURL{
		Keyword:  strField(raw, "keyword"),
		ShortURL: strField(raw, "shorturl"),
		URL:      strField(raw, "longurl"),
		Title:    strField(raw, "title"),
	}, nil
}

// URLStats fetches click stats for one keyword via action=url-stats.
func (c *Client) URLStats(ctx context.Context, keyword string) (*Link, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}
	raw, err := c.do(ctx, "url-stats", map[string]string{"shorturl": keyword})
	if err != nil {
		return nil, err
	}
	link, ok := raw["link"].(map[string]any)
	if !ok {
		return nil, &APIError{Kind: KindRemote, Message: "url-stats response missing link object", Raw: raw}
	}
	return parseLink(link), nil
}

// GetDBStats fetches instance-wide totals via action=db-stats.
func (c *Client) GetDBStats(ctx context.Context) (*DBStats, error) {
	raw, err := c.do(ctx, "db-stats", nil)
	if err != nil {
		return nil, err
	}
	stats, ok := raw["db-stats"].(map[string]any)
	if !ok {
		return nil, &APIError{Kind: KindRemote, Message: "db-stats response missing stats object", Raw: raw}
	}
	return &DBStats{
		TotalLinks:  intField(stats, "total_links"),
		TotalClicks: intField(stats, "total_clicks"),
	}, nil
}

// Search is the only bulk read the core server offers: action=stats with a
// ranking filter (top, bottom, rand, last) and a limit. The core action has
// no field filtering; strategies that need it filter locally. The limit is
// clamped to maxSearchLimit no matter what the caller requests.
func (c *Client) Search(ctx context.Context, limit int, filter string) ([]Link, error) {
	if limit <= 0 {
		limit = maxSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if filter == "" {
		filter = "last"
	}
	switch filter {
	case "top", "bottom", "rand", "last":
	default:
		return nil, newValidationError("invalid filter %q (top, bottom, rand, last)", filter)
	}

	raw, err := c.do(ctx, "stats", map[string]string{
		"filter": filter,
		"limit":  strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	// Entries are keyed link_1..link_N; parseLinksPayload walks the index
	// to keep the server's ordering, which map iteration would scramble.
	// An empty database answers with links as an empty array, which parses
	// to nil.
	return parseLinksPayload(raw), nil
}

func parseLink(m map[string]any) *Link {
	l := &Link{
		Keyword:   strField(m, "keyword"),
		ShortURL:  strField(m, "shorturl"),
		URL:       strField(m, "url"),
		Title:     strField(m, "title"),
		Timestamp: strField(m, "timestamp"),
		IP:        strField(m, "ip"),
		Clicks:    intField(m, "clicks"),
	}
	// Core stats entries omit the keyword field; it is the last path
	// segment of the short URL.
	if l.Keyword == "" && l.ShortURL != "" {
		l.Keyword = keywordFromShortURL(l.ShortURL)
	}
	return l
}

func keywordFromShortURL(shortURL string) string {
	trimmed := strings.TrimRight(shortURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
