package yourls

import (
	"context"
	"strings"
)

// DeleteResult is the outcome of DeleteShortURL. Deleted=false with a
// populated Fallback means the mapping exists but the server cannot delete
// it. An informational outcome, not an error.
type DeleteResult struct {
	Keyword string `json:"keyword"`
	Deleted bool   `json:"deleted"`
	Fallback
}

// DeleteShortURL removes a mapping via the delete plugin. The core API has
// no delete at all, so without the plugin the client confirms the mapping
// exists and reports that deletion is unsupported; it never silently
// no-ops.
func (c *Client) DeleteShortURL(ctx context.Context, keyword string) (*DeleteResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}

	return runStrategies(ctx, "delete",
		native(c, CapDelete, func(ctx context.Context) (*DeleteResult, error) {
			if _, err := c.do(ctx, "delete", map[string]string{"shorturl": keyword}); err != nil {
				return nil, err
			}
			return &DeleteResult{Keyword: keyword, Deleted: true}, nil
		}),
		emulated(func(ctx context.Context) (*DeleteResult, error) {
			// Existence check first so a missing keyword is still
			// reported as NotFound rather than "cannot delete".
			if _, err := c.Expand(ctx, keyword); err != nil {
				return nil, err
			}
			return &DeleteResult{
				Keyword: keyword,
				Deleted: false,
				Fallback: Fallback{
					UsedFallback:       true,
					LimitedCapability:  true,
					RequiredCapability: CapDelete,
					Limitations:        "deletion requires the delete plugin; the mapping was left intact",
				},
			}, nil
		}),
	)
}
