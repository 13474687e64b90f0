package yourls

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UpdateResult is the outcome of UpdateShortURL.
type UpdateResult struct {
	Keyword string `json:"keyword"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Fallback
}

// UpdateShortURL points an existing keyword at a new destination. Native
// path uses the update plugin; without it the client re-creates the keyword
// and reports the emulation's limits.
func (c *Client) UpdateShortURL(ctx context.Context, keyword, newURL, title string, keepTitle bool) (*UpdateResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}
	if err := validateDestination(newURL); err != nil {
		return nil, err
	}

	return runStrategies(ctx, "update",
		native(c, CapUpdate, func(ctx context.Context) (*UpdateResult, error) {
			return c.updateNative(ctx, keyword, newURL, title)
		}),
		emulated(func(ctx context.Context) (*UpdateResult, error) {
			return c.updateEmulated(ctx, keyword, newURL, title, keepTitle)
		}),
	)
}

func (c *Client) updateNative(ctx context.Context, keyword, newURL, title string) (*UpdateResult, error) {
	params := map[string]string{"shorturl": keyword, "url": newURL}
	if title != "" {
		params["title"] = title
	}
	if _, err := c.do(ctx, "update", params); err != nil {
		return nil, err
	}
	return &UpdateResult{Keyword: keyword, URL: newURL, Title: title}, nil
}

func (c *Client) updateEmulated(ctx context.Context, keyword, newURL, title string, keepTitle bool) (*UpdateResult, error) {
	// Keep-title semantics need the current title before anything is
	// touched. A missing keyword surfaces as NotFound here, which is the
	// right answer for updating something that does not exist.
	if keepTitle && title == "" {
		current, err := c.Expand(ctx, keyword)
		if err != nil {
			return nil, err
		}
		title = current.Title
	}

	created, err := c.shorten(ctx, newURL, keyword, title, true, false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindConflict {
			// The baseline create treats existing-keyword as a
			// conflict by design, so the emulation cannot tell
			// "update refused" from "keyword taken". Say so.
			return nil, &APIError{
				Kind: KindConflict,
				Code: apiErr.Code,
				Message: fmt.Sprintf("cannot update %q without the update plugin: the server refused keyword re-creation (%s)",
					keyword, apiErr.Message),
				HTTPStatus: apiErr.HTTPStatus,
				Raw:        apiErr.Raw,
			}
		}
		return nil, err
	}

	return &UpdateResult{
		Keyword: created.Keyword,
		URL:     newURL,
		Title:   created.Title,
		Fallback: Fallback{
			UsedFallback:       true,
			RequiredCapability: CapUpdate,
			Limitations:        "emulated by re-creating the keyword; the server may silently keep the old destination on installations that reject re-creation",
		},
	}, nil
}
