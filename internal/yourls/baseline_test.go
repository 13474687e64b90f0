package yourls

import (
	"context"
	"net/http"
	"testing"
)

func TestValidateDestination(t *testing.T) {
	ok := []string{
		"https://example.com/",
		"http://example.com/path?q=1",
	}
	for _, u := range ok {
		if err := validateDestination(u); err != nil {
			t.Errorf("%q: unexpected error %v", u, err)
		}
	}

	bad := []string{
		"",
		"   ",
		"ftp://example.com/",
		"example.com/no-scheme",
		"https:///no-host",
	}
	for _, u := range bad {
		if err := validateDestination(u); !IsValidation(err) {
			t.Errorf("%q: expected validation error, got %v", u, err)
		}
	}
}

func TestShorten(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("shorturl", func(w http.ResponseWriter, r *http.Request) {
		if r.Form.Get("url") != "https://example.com/page" {
			t.Errorf("unexpected url %q", r.Form.Get("url"))
		}
		if r.Form.Get("format") != "json" {
			t.Error("format=json missing")
		}
		writeJSON(w, map[string]any{
			"status":   "success",
			"shorturl": "https://sho.rt/1a2b3",
			"title":    "A Page",
			"url": map[string]any{
				"keyword": "1a2b3",
				"url":     "https://example.com/page",
			},
		})
	})
	c := api.client(t)

	res, err := c.Shorten(context.Background(), "https://example.com/page", "", "", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Keyword != "1a2b3" || res.ShortURL != "https://sho.rt/1a2b3" || res.Title != "A Page" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestShorten_InvalidURLSkipsNetwork(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t)

	if _, err := c.Shorten(context.Background(), "not-a-url", "", "", false); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := api.count("shorturl"); got != 0 {
		t.Fatal("invalid input must never reach the wire")
	}
}

func TestExpand(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("expand", map[string]any{
		"keyword":  "docs",
		"shorturl": "https://sho.rt/docs",
		"longurl":  "https://example.com/docs",
		"title":    "Docs",
	})
	c := api.client(t)

	res, err := c.Expand(context.Background(), "docs")
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://example.com/docs" || res.Keyword != "docs" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestURLStats_StringClicks(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("url-stats", map[string]any{
		"link": map[string]any{
			"shorturl": "https://sho.rt/docs",
			"url":      "https://example.com/docs",
			"clicks":   "123",
		},
	})
	c := api.client(t)

	res, err := c.URLStats(context.Background(), "docs")
	if err != nil {
		t.Fatal(err)
	}
	if res.Clicks != 123 {
		t.Fatalf("string clicks not parsed: %+v", res)
	}
	// keyword is derived from the short URL when the server omits it.
	if res.Keyword != "docs" {
		t.Fatalf("keyword not derived: %+v", res)
	}
}

func TestGetDBStats(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("db-stats", map[string]any{
		"db-stats": map[string]any{
			"total_links":  "250",
			"total_clicks": 7000,
		},
	})
	c := api.client(t)

	res, err := c.GetDBStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalLinks != 250 || res.TotalClicks != 7000 {
		t.Fatalf("unexpected stats: %+v", res)
	}
}

func TestSearch_PreservesServerOrder(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("stats", map[string]any{
		"links": map[string]any{
			"link_2": map[string]any{"shorturl": "https://sho.rt/b", "url": "https://example.com/b"},
			"link_1": map[string]any{"shorturl": "https://sho.rt/a", "url": "https://example.com/a"},
			"link_3": map[string]any{"shorturl": "https://sho.rt/c", "url": "https://example.com/c"},
		},
	})
	c := api.client(t)

	links, err := c.Search(context.Background(), 10, "last")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for i, want := range []string{"a", "b", "c"} {
		if links[i].Keyword != want {
			t.Fatalf("order scrambled: %+v", links)
		}
	}
}

func TestSearch_EmptyDatabase(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("stats", map[string]any{"links": []any{}})
	c := api.client(t)

	links, err := c.Search(context.Background(), 10, "last")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links, got %+v", links)
	}
}

func TestSearch_InvalidFilter(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t)

	if _, err := c.Search(context.Background(), 10, "newest"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestKeywordFromShortURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://sho.rt/abc", "abc"},
		{"https://sho.rt/abc/", "abc"},
		{"abc", "abc"},
	}
	for _, tc := range cases {
		if got := keywordFromShortURL(tc.in); got != tc.want {
			t.Errorf("keywordFromShortURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
