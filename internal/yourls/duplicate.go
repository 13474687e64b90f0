package yourls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// CreateCustomURLOptions are the inputs to CreateCustomURL.
type CreateCustomURLOptions struct {
	URL     string
	Keyword string
	Title   string

	// BypassChainGuard passes the bypass flag on the first attempt
	// instead of waiting for a chain-guard rejection.
	BypassChainGuard bool

	// ForceMutation skips the optimistic force=1 attempt and goes
	// straight to destination mutation.
	ForceMutation bool
}

// CreateResult is the outcome of CreateCustomURL. When the destination had
// to be mutated, URL-facing fields always show the original destination and
// InternalURL records what the server actually stored.
type CreateResult struct {
	*ShortURL
	InternalURL  string `json:"internal_url,omitempty"`
	UsedFallback bool   `json:"used_fallback"`
	Limitations  string `json:"limitations,omitempty"`
}

// CreateCustomURL creates a keyword pointing at a destination that may
// already be shortened under another keyword, which the core server
// forbids via its uniqueness constraint.
//
// Order of attack: idempotency lookup first, then the server's own
// duplicate support (force=1, honored when a duplicate-allowing plugin is
// installed), and destination mutation only as the last resort, because
// mutation stores a destination that differs from what the user asked for.
func (c *Client) CreateCustomURL(ctx context.Context, opts CreateCustomURLOptions) (*CreateResult, error) {
	if err := validateDestination(opts.URL); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}

	// Recreating an identical mapping is a no-op success; a keyword bound
	// elsewhere is a conflict, never an overwrite.
	existing, err := c.Expand(ctx, opts.Keyword)
	switch {
	case err == nil:
		if !sameDestination(existing.URL, opts.URL) {
			return nil, &APIError{
				Kind: KindConflict,
				Code: "error:keyword",
				Message: fmt.Sprintf("keyword %q already maps to a different destination (%s)",
					opts.Keyword, existing.URL),
			}
		}
		res := &CreateResult{ShortURL: &ShortURL{
			Keyword:  existing.Keyword,
			ShortURL: existing.ShortURL,
			URL:      opts.URL,
			Title:    existing.Title,
		}}
		if existing.URL != opts.URL {
			res.InternalURL = existing.URL
		}
		return res, nil
	case IsNotFound(err):
		// Keyword free; proceed to create.
	default:
		return nil, err
	}

	if !opts.ForceMutation {
		created, err := c.shortenGuarded(ctx, opts.URL, opts.Keyword, opts.Title, true, opts.BypassChainGuard)
		switch {
		case err == nil:
			if created.Keyword == opts.Keyword {
				return &CreateResult{ShortURL: created}, nil
			}
			// The server "succeeded" by handing back the pre-existing
			// mapping under its old keyword instead of creating ours.
			// Force was ignored; mutate.
		case RemoteCode(err) == "error:url":
			// Destination already shortened and no plugin honored
			// force. Mutate.
		default:
			return nil, err
		}
	}

	mutated := mutateDestination(opts.URL, c.now().UnixMilli())
	slog.Warn("falling back to destination mutation", "keyword", opts.Keyword)

	created, err := c.shortenGuarded(ctx, mutated, opts.Keyword, opts.Title, false, opts.BypassChainGuard)
	if err != nil {
		return nil, err
	}
	return &CreateResult{
		ShortURL: &ShortURL{
			Keyword:  created.Keyword,
			ShortURL: created.ShortURL,
			URL:      opts.URL, // callers never see the synthetic parameter
			Title:    created.Title,
		},
		InternalURL:  mutated,
		UsedFallback: true,
		Limitations:  "destination stored with a synthetic _t query parameter to satisfy the server's uniqueness constraint; redirects are unaffected",
	}, nil
}

// shortenGuarded runs shorten and, on a chain-guard rejection (the server
// refusing to shorten a URL that is itself a short URL of the instance),
// retries exactly once with the bypass flag. Never loops.
func (c *Client) shortenGuarded(ctx context.Context, dest, keyword, title string, force, bypass bool) (*ShortURL, error) {
	created, err := c.shorten(ctx, dest, keyword, title, force, bypass)
	if err != nil && !bypass && isChainGuardRejection(err) {
		return c.shorten(ctx, dest, keyword, title, force, true)
	}
	return created, err
}

func isChainGuardRejection(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindRemote {
		return false
	}
	if apiErr.Code == "error:chain" {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "cannot shorten a short") ||
		strings.Contains(msg, "already a short url")
}

func mutateDestination(dest string, millis int64) string {
	sep := "?"
	if strings.Contains(dest, "?") {
		sep = "&"
	}
	return dest + sep + "_t=" + strconv.FormatInt(millis, 10)
}

// sameDestination compares a stored destination to a requested one,
// ignoring the synthetic _t parameter a previous mutation may have added.
// Without this, recreating a mapping that was built through the fallback
// would report a bogus conflict.
func sameDestination(stored, requested string) bool {
	return stored == requested || stripMutation(stored) == requested
}

// stripMutation removes a trailing ?_t=<digits> / &_t=<digits> suffix.
// The mutation is always appended last, so a suffix check is exact.
func stripMutation(dest string) string {
	i := strings.LastIndex(dest, "_t=")
	if i < 1 {
		return dest
	}
	sep := dest[i-1]
	if sep != '?' && sep != '&' {
		return dest
	}
	digits := dest[i+len("_t="):]
	if digits == "" {
		return dest
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return dest
		}
	}
	return dest[:i-1]
}
