package yourls

import (
	"context"
	"net/http"
	"testing"
)

func TestURLAnalytics_Native(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("shorturl_analytics", func(w http.ResponseWriter, r *http.Request) {
		if r.Form.Get("shorturl") == "yourlsmcpprobe" {
			writeJSON(w, notFoundBody())
			return
		}
		if r.Form.Get("date") != "2026-08-01" || r.Form.Get("date_end") != "2026-08-07" {
			t.Errorf("unexpected date range: %v", r.Form)
		}
		writeJSON(w, map[string]any{
			"total_clicks": "12",
			"daily_clicks": map[string]any{
				"2026-08-01": 5,
				"2026-08-02": "7",
			},
		})
	})
	c := api.client(t)

	res, err := c.URLAnalytics(context.Background(), "docs", "2026-08-01", "2026-08-07")
	if err != nil {
		t.Fatal(err)
	}
	if res.UsedFallback {
		t.Fatal("native path must not report a fallback")
	}
	if res.TotalClicks != 12 {
		t.Fatalf("expected 12 total clicks, got %d", res.TotalClicks)
	}
	if res.DailyClicks["2026-08-01"] != 5 || res.DailyClicks["2026-08-02"] != 7 {
		t.Fatalf("unexpected daily clicks: %v", res.DailyClicks)
	}
}

func TestURLAnalytics_EmulatedLifetimeOnly(t *testing.T) {
	api := newFakeAPI(t)
	api.unknownAction(CapAnalytics)
	api.respond("url-stats", map[string]any{
		"link": map[string]any{
			"shorturl": "https://sho.rt/docs",
			"url":      "https://example.com/docs",
			"clicks":   "42",
		},
	})
	c := api.client(t)

	res, err := c.URLAnalytics(context.Background(), "docs", "2026-08-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.UsedFallback || !res.LimitedCapability {
		t.Fatalf("degraded analytics must be disclosed: %+v", res.Fallback)
	}
	if res.TotalClicks != 42 {
		t.Fatalf("expected lifetime total 42, got %d", res.TotalClicks)
	}
	if res.DailyClicks != nil {
		t.Fatal("the fallback cannot produce a per-day breakdown")
	}
}

func TestURLAnalytics_DateValidation(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t)

	_, err := c.URLAnalytics(context.Background(), "docs", "08/01/2026", "")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckURLExists_Native(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("url_exists", func(w http.ResponseWriter, r *http.Request) {
		if r.Form.Get("url") == "https://example.com/yourls-mcp-probe" {
			writeJSON(w, notFoundBody())
			return
		}
		writeJSON(w, map[string]any{"exists": "1", "keyword": "docs"})
	})
	c := api.client(t)

	res, err := c.CheckURLExists(context.Background(), "https://example.com/docs")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exists || res.Keyword != "docs" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheckURLExists_EmulatedMissIsSuccess(t *testing.T) {
	api := newFakeAPI(t)
	api.unknownAction(CapURLExists, CapGetURL)
	api.respond("stats", map[string]any{"links": map[string]any{}})
	c := api.client(t)

	res, err := c.CheckURLExists(context.Background(), "https://example.com/missing")
	if err != nil {
		t.Fatalf("a miss is a successful exists=false, got %v", err)
	}
	if res.Exists {
		t.Fatal("expected exists=false")
	}
	if !res.UsedFallback {
		t.Fatal("fallback not disclosed")
	}
}

func TestCheckURLExists_EmulatedHit(t *testing.T) {
	api := newFakeAPI(t)
	api.unknownAction(CapURLExists, CapGetURL)
	api.respond("stats", statsWindow())
	c := api.client(t)

	res, err := c.CheckURLExists(context.Background(), "https://example.com/docs")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exists || res.Keyword != "docs" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
