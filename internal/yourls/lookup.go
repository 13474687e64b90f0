package yourls

import (
	"context"
	"fmt"
)

// LookupResult is the outcome of GetURLKeyword.
type LookupResult struct {
	URL     string `json:"url"`
	Matches []Link `json:"matches"`
	Fallback
}

// GetURLKeyword finds the keyword(s) mapped to a destination. Native path
// uses the lookup plugin; without it the client scans a capped Search
// window for exact destination matches. exactlyOne stops at the first match
// in scan order; otherwise the full capped window is scanned.
func (c *Client) GetURLKeyword(ctx context.Context, dest string, exactlyOne bool) (*LookupResult, error) {
	if err := validateDestination(dest); err != nil {
		return nil, err
	}

	return runStrategies(ctx, "geturl",
		native(c, CapGetURL, func(ctx context.Context) (*LookupResult, error) {
			return c.lookupNative(ctx, dest, exactlyOne)
		}),
		emulated(func(ctx context.Context) (*LookupResult, error) {
			return c.lookupEmulated(ctx, dest, exactlyOne)
		}),
	)
}

func (c *Client) lookupNative(ctx context.Context, dest string, exactlyOne bool) (*LookupResult, error) {
	params := map[string]string{"url": dest}
	if exactlyOne {
		params["exactly_one"] = "1"
	}
	raw, err := c.do(ctx, "geturl", params)
	if err != nil {
		return nil, err
	}

	result := &LookupResult{URL: dest}
	switch v := raw["keywords"].(type) {
	case []any:
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				result.Matches = append(result.Matches, Link{Keyword: e, URL: dest})
			case map[string]any:
				link := parseLink(e)
				link.URL = dest
				result.Matches = append(result.Matches, *link)
			}
		}
	default:
		if k := strField(raw, "keyword"); k != "" {
			result.Matches = append(result.Matches, Link{Keyword: k, URL: dest})
		}
	}
	if len(result.Matches) == 0 {
		return nil, &APIError{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("no keyword maps to %s", dest),
			Raw:     raw,
		}
	}
	return result, nil
}

func (c *Client) lookupEmulated(ctx context.Context, dest string, exactlyOne bool) (*LookupResult, error) {
	links, err := c.Search(ctx, maxSearchLimit, "last")
	if err != nil {
		return nil, err
	}

	result := &LookupResult{
		URL: dest,
		Fallback: Fallback{
			UsedFallback:       true,
			RequiredCapability: CapGetURL,
			Limitations:        fmt.Sprintf("scanned the %d most recent links only; older mappings are not visible to the fallback", maxSearchLimit),
		},
	}
	for _, link := range links {
		// Destinations stored through the mutation fallback match on
		// their unmutated form too.
		if link.URL != dest && stripMutation(link.URL) != dest {
			continue
		}
		link.URL = dest
		result.Matches = append(result.Matches, link)
		if exactlyOne {
			break
		}
	}
	if len(result.Matches) == 0 {
		return nil, &APIError{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("no keyword maps to %s", dest),
		}
	}
	return result, nil
}
