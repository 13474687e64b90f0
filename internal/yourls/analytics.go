package yourls

import (
	"context"
	"strings"
	"time"
)

// AnalyticsResult is the outcome of URLAnalytics. DailyClicks is only
// populated on the native path; the fallback can report the lifetime total
// and nothing finer.
type AnalyticsResult struct {
	Keyword     string         `json:"keyword"`
	TotalClicks int            `json:"total_clicks"`
	DailyClicks map[string]int `json:"daily_clicks,omitempty"`
	From        string         `json:"from,omitempty"`
	To          string         `json:"to,omitempty"`
	Fallback
}

// URLAnalytics reports click analytics for a keyword over a date range
// (YYYY-MM-DD, inclusive). Without the analytics plugin it degrades to the
// lifetime click total from url-stats.
func (c *Client) URLAnalytics(ctx context.Context, keyword, from, to string) (*AnalyticsResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, newValidationError("invalid date %q (want YYYY-MM-DD)", d)
		}
	}

	return runStrategies(ctx, "shorturl_analytics",
		native(c, CapAnalytics, func(ctx context.Context) (*AnalyticsResult, error) {
			return c.analyticsNative(ctx, keyword, from, to)
		}),
		emulated(func(ctx context.Context) (*AnalyticsResult, error) {
			stats, err := c.URLStats(ctx, keyword)
			if err != nil {
				return nil, err
			}
			return &AnalyticsResult{
				Keyword:     keyword,
				TotalClicks: stats.Clicks,
				Fallback: Fallback{
					UsedFallback:       true,
					LimitedCapability:  true,
					RequiredCapability: CapAnalytics,
					Limitations:        "per-day breakdown requires the analytics plugin; only the lifetime click total is available",
				},
			}, nil
		}),
	)
}

func (c *Client) analyticsNative(ctx context.Context, keyword, from, to string) (*AnalyticsResult, error) {
	params := map[string]string{"shorturl": keyword}
	if from != "" {
		params["date"] = from
	}
	if to != "" {
		params["date_end"] = to
	}
	raw, err := c.do(ctx, "shorturl_analytics", params)
	if err != nil {
		return nil, err
	}

	result := &AnalyticsResult{
		Keyword:     keyword,
		TotalClicks: intField(raw, "total_clicks"),
		From:        from,
		To:          to,
	}
	if daily, ok := raw["daily_clicks"].(map[string]any); ok {
		result.DailyClicks = make(map[string]int, len(daily))
		for day, clicks := range daily {
			result.DailyClicks[day] = toInt(clicks)
		}
	}
	return result, nil
}

// ExistsResult is the outcome of CheckURLExists. A destination that is not
// shortened anywhere is a successful Exists=false, not an error.
type ExistsResult struct {
	URL     string `json:"url"`
	Exists  bool   `json:"exists"`
	Keyword string `json:"keyword,omitempty"`
	Fallback
}

// CheckURLExists reports whether a destination is already shortened on the
// instance. Without the existence-check plugin it reuses the
// lookup-by-destination fallback.
func (c *Client) CheckURLExists(ctx context.Context, dest string) (*ExistsResult, error) {
	if err := validateDestination(dest); err != nil {
		return nil, err
	}

	return runStrategies(ctx, "url_exists",
		native(c, CapURLExists, func(ctx context.Context) (*ExistsResult, error) {
			raw, err := c.do(ctx, "url_exists", map[string]string{"url": dest})
			if err != nil {
				return nil, err
			}
			result := &ExistsResult{URL: dest, Keyword: strField(raw, "keyword")}
			switch v := raw["exists"].(type) {
			case bool:
				result.Exists = v
			case string:
				result.Exists = v == "true" || v == "1"
			default:
				result.Exists = result.Keyword != ""
			}
			return result, nil
		}),
		emulated(func(ctx context.Context) (*ExistsResult, error) {
			lookup, err := c.GetURLKeyword(ctx, dest, true)
			if IsNotFound(err) {
				return &ExistsResult{
					URL: dest,
					Fallback: Fallback{
						UsedFallback:       true,
						RequiredCapability: CapURLExists,
						Limitations:        "emulated by scanning recent links; a miss is not authoritative on large databases",
					},
				}, nil
			}
			if err != nil {
				return nil, err
			}
			return &ExistsResult{
				URL:     dest,
				Exists:  true,
				Keyword: lookup.Matches[0].Keyword,
				Fallback: Fallback{
					UsedFallback:       true,
					RequiredCapability: CapURLExists,
				},
			}, nil
		}),
	)
}
