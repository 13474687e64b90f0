package yourls

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// listFields are the projectable per-link fields. keyword is always
// included in projections so every row stays addressable.
var listFields = map[string]bool{
	"keyword":   true,
	"shorturl":  true,
	"url":       true,
	"title":     true,
	"timestamp": true,
	"ip":        true,
	"clicks":    true,
}

// ListOptions control sorting, pagination, filtering and projection.
type ListOptions struct {
	SortBy    string   // any key of listFields; default "timestamp"
	SortOrder string   // ASC or DESC; default DESC
	PerPage   int      // default 20
	Offset    int      // row offset, not page number
	Query     string   // substring filter on keyword, url and title
	Fields    []string // projection; empty means all fields
}

func (o *ListOptions) normalize() error {
	if o.SortBy == "" {
		o.SortBy = "timestamp"
	}
	if !listFields[o.SortBy] {
		return newValidationError("invalid sortby %q", o.SortBy)
	}
	switch strings.ToUpper(o.SortOrder) {
	case "":
		o.SortOrder = "DESC"
	case "ASC", "DESC":
		o.SortOrder = strings.ToUpper(o.SortOrder)
	default:
		return newValidationError("invalid sortorder %q (ASC or DESC)", o.SortOrder)
	}
	if o.PerPage <= 0 {
		o.PerPage = 20
	}
	if o.PerPage > maxSearchLimit {
		o.PerPage = maxSearchLimit
	}
	if o.Offset < 0 {
		return newValidationError("offset must not be negative")
	}
	for _, f := range o.Fields {
		if !listFields[f] {
			return newValidationError("invalid field %q", f)
		}
	}
	return nil
}

// ListResult is one page of links. Rows are field-projected maps so the
// native plugin response and the emulated page share one shape.
type ListResult struct {
	Links   []map[string]any `json:"links"`
	Total   int              `json:"total"`
	PerPage int              `json:"perpage"`
	Offset  int              `json:"offset"`
	Fallback
}

// ListURLs lists links with sorting, pagination, filtering and field
// projection. Native path uses the extended-list plugin; the fallback pulls
// an inflated Search window and does everything locally.
func (c *Client) ListURLs(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	return runStrategies(ctx, "list",
		native(c, CapList, func(ctx context.Context) (*ListResult, error) {
			return c.listNative(ctx, opts)
		}),
		emulated(func(ctx context.Context) (*ListResult, error) {
			return c.listEmulated(ctx, opts)
		}),
	)
}

func (c *Client) listNative(ctx context.Context, opts ListOptions) (*ListResult, error) {
	params := map[string]string{
		"sortby":    opts.SortBy,
		"sortorder": opts.SortOrder,
		"perpage":   strconv.Itoa(opts.PerPage),
		"offset":    strconv.Itoa(opts.Offset),
	}
	if opts.Query != "" {
		params["query"] = opts.Query
	}
	raw, err := c.do(ctx, "list", params)
	if err != nil {
		return nil, err
	}

	links := parseLinksPayload(raw)
	rows := make([]map[string]any, 0, len(links))
	for i := range links {
		rows = append(rows, projectLink(&links[i], opts.Fields))
	}
	total := intField(raw, "total")
	if total == 0 {
		total = len(rows)
	}
	return &ListResult{Links: rows, Total: total, PerPage: opts.PerPage, Offset: opts.Offset}, nil
}

// listEmulated reconstructs the extended list from the core stats action:
// pull perpage*3 rows (capped) to compensate for approximate filtering,
// then filter, sort, slice and project locally.
func (c *Client) listEmulated(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.PerPage * 3
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	links, err := c.Search(ctx, limit, "last")
	if err != nil {
		return nil, err
	}

	if opts.Query != "" {
		q := strings.ToLower(opts.Query)
		filtered := links[:0]
		for _, l := range links {
			if strings.Contains(strings.ToLower(l.Keyword), q) ||
				strings.Contains(strings.ToLower(l.URL), q) ||
				strings.Contains(strings.ToLower(l.Title), q) {
				filtered = append(filtered, l)
			}
		}
		links = filtered
	}

	sortLinks(links, opts.SortBy, opts.SortOrder)
	total := len(links)

	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.PerPage
	if end > total {
		end = total
	}
	page := links[start:end]

	rows := make([]map[string]any, 0, len(page))
	for i := range page {
		rows = append(rows, projectLink(&page[i], opts.Fields))
	}

	return &ListResult{
		Links:   rows,
		Total:   total,
		PerPage: opts.PerPage,
		Offset:  opts.Offset,
		Fallback: Fallback{
			UsedFallback:       true,
			RequiredCapability: CapList,
			Limitations:        fmt.Sprintf("emulated from the %d most recent links; totals and deep pages are approximate", limit),
		},
	}, nil
}

// sortLinks sorts in place. clicks compares numerically, everything else as
// strings.
func sortLinks(links []Link, sortBy, order string) {
	less := func(a, b *Link) bool {
		if sortBy == "clicks" {
			return a.Clicks < b.Clicks
		}
		return linkField(a, sortBy) < linkField(b, sortBy)
	}
	sort.SliceStable(links, func(i, j int) bool {
		if order == "DESC" {
			return less(&links[j], &links[i])
		}
		return less(&links[i], &links[j])
	})
}

func linkField(l *Link, field string) string {
	switch field {
	case "keyword":
		return l.Keyword
	case "shorturl":
		return l.ShortURL
	case "url":
		return l.URL
	case "title":
		return l.Title
	case "timestamp":
		return l.Timestamp
	case "ip":
		return l.IP
	}
	return ""
}

// projectLink keeps only the requested fields, plus keyword always.
// Destinations are shown without the synthetic mutation parameter.
func projectLink(l *Link, fields []string) map[string]any {
	row := map[string]any{"keyword": l.Keyword}
	want := func(f string) bool {
		if len(fields) == 0 {
			return true
		}
		for _, x := range fields {
			if x == f {
				return true
			}
		}
		return false
	}
	if want("shorturl") {
		row["shorturl"] = l.ShortURL
	}
	if want("url") {
		row["url"] = stripMutation(l.URL)
	}
	if want("title") {
		row["title"] = l.Title
	}
	if want("timestamp") {
		row["timestamp"] = l.Timestamp
	}
	if want("ip") {
		row["ip"] = l.IP
	}
	if want("clicks") {
		row["clicks"] = l.Clicks
	}
	return row
}

// parseLinksPayload tolerates both response shapes seen in the wild: a
// result array and a links_N keyed object.
func parseLinksPayload(raw map[string]any) []Link {
	if arr, ok := raw["result"].([]any); ok {
		links := make([]Link, 0, len(arr))
		for _, entry := range arr {
			if m, ok := entry.(map[string]any); ok {
				links = append(links, *parseLink(m))
			}
		}
		return links
	}
	if m, ok := raw["links"].(map[string]any); ok {
		links := make([]Link, 0, len(m))
		for i := 1; ; i++ {
			entry, ok := m[fmt.Sprintf("link_%d", i)].(map[string]any)
			if !ok {
				break
			}
			links = append(links, *parseLink(entry))
		}
		return links
	}
	return nil
}
