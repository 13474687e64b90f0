package yourls

import (
	"context"
	"strings"
)

// RenameResult is the outcome of ChangeKeyword. OldKeywordActive is true
// when the emulation could not remove the old keyword.
type RenameResult struct {
	OldKeyword       string `json:"old_keyword"`
	Keyword          string `json:"keyword"`
	ShortURL         string `json:"shorturl,omitempty"`
	URL              string `json:"url"`
	Title            string `json:"title,omitempty"`
	OldKeywordActive bool   `json:"old_keyword_active"`
	Fallback
}

// ChangeKeyword renames a keyword. Without the rename plugin the client
// creates the new keyword at the old destination and leaves the old keyword
// live. The core API has no delete, so this is a permanent, documented
// limitation of the fallback, not something to hide.
func (c *Client) ChangeKeyword(ctx context.Context, oldKeyword, newKeyword string) (*RenameResult, error) {
	if strings.TrimSpace(oldKeyword) == "" || strings.TrimSpace(newKeyword) == "" {
		return nil, newValidationError("both old and new keywords are required")
	}
	if oldKeyword == newKeyword {
		return nil, newValidationError("old and new keywords are identical")
	}

	return runStrategies(ctx, "change_keyword",
		native(c, CapChangeKeyword, func(ctx context.Context) (*RenameResult, error) {
			return c.renameNative(ctx, oldKeyword, newKeyword)
		}),
		emulated(func(ctx context.Context) (*RenameResult, error) {
			return c.renameEmulated(ctx, oldKeyword, newKeyword)
		}),
	)
}

func (c *Client) renameNative(ctx context.Context, oldKeyword, newKeyword string) (*RenameResult, error) {
	raw, err := c.do(ctx, "change_keyword", map[string]string{
		"old_keyword": oldKeyword,
		"new_keyword": newKeyword,
	})
	if err != nil {
		return nil, err
	}
	return &RenameResult{
		OldKeyword: oldKeyword,
		Keyword:    newKeyword,
		ShortURL:   strField(raw, "shorturl"),
		URL:        strField(raw, "url"),
		Title:      strField(raw, "title"),
	}, nil
}

func (c *Client) renameEmulated(ctx context.Context, oldKeyword, newKeyword string) (*RenameResult, error) {
	current, err := c.Expand(ctx, oldKeyword)
	if err != nil {
		return nil, err
	}

	// The old keyword already holds this destination, so creating the new
	// keyword trips the uniqueness constraint; the duplicate orchestrator
	// exists for exactly this.
	created, err := c.CreateCustomURL(ctx, CreateCustomURLOptions{
		URL:     stripMutation(current.URL),
		Keyword: newKeyword,
		Title:   current.Title,
	})
	if err != nil {
		return nil, err
	}

	return &RenameResult{
		OldKeyword:       oldKeyword,
		Keyword:          created.Keyword,
		ShortURL:         created.ShortURL.ShortURL,
		URL:              created.URL,
		Title:            created.Title,
		OldKeywordActive: true,
		Fallback: Fallback{
			UsedFallback:       true,
			LimitedCapability:  true,
			RequiredCapability: CapChangeKeyword,
			Limitations:        "the old keyword was not deleted and still resolves; the core API offers no delete action",
		},
	}, nil
}
