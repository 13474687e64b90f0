package yourls

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestUpdateShortURL_Native(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("update", map[string]any{"status": "success"})
	c := api.client(t)

	res, err := c.UpdateShortURL(context.Background(), "docs", "https://example.com/v2", "", true)
	if err != nil {
		t.Fatal(err)
	}
	if res.UsedFallback {
		t.Fatal("native path must not report a fallback")
	}
	if res.Keyword != "docs" || res.URL != "https://example.com/v2" {
		t.Fatalf("unexpected result: %+v", res)
	}
	// One probe plus the real call.
	if got := api.count("update"); got != 2 {
		t.Fatalf("expected probe + update, got %d calls", got)
	}
}

func TestUpdateShortURL_EmulatedKeepsTitle(t *testing.T) {
	api := newFakeAPI(t)
	api.unknownAction(CapUpdate)
	api.respond("expand", map[string]any{
		"keyword":  "docs",
		"shorturl": "https://sho.rt/docs",
		"longurl":  "https://example.com/v1",
		"title":    "Old Title",
	})
	api.handle("shorturl", func(w http.ResponseWriter, r *http.Request) {
		if r.Form.Get("title") != "Old Title" {
			t.Errorf("expected the current title to be carried over, got %q", r.Form.Get("title"))
		}
		if r.Form.Get("force") != "1" {
			t.Error("re-creation must pass force=1")
		}
		writeJSON(w, map[string]any{
			"status":   "success",
			"shorturl": "https://sho.rt/docs",
			"url": map[string]any{
				"keyword": "docs",
				"url":     r.Form.Get("url"),
				"title":   r.Form.Get("title"),
			},
		})
	})
	c := api.client(t)

	res, err := c.UpdateShortURL(context.Background(), "docs", "https://example.com/v2", "", true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.UsedFallback {
		t.Fatal("emulated path must report used_fallback")
	}
	if res.RequiredCapability != CapUpdate {
		t.Fatalf("unexpected required capability %q", res.RequiredCapability)
	}
	if res.Title != "Old Title" || res.URL != "https://example.com/v2" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := api.count("expand"); got != 1 {
		t.Fatalf("expected one title lookup, got %d", got)
	}
}

func TestUpdateShortURL_EmulatedConflict(t *testing.T) {
	api := newFakeAPI(t)
	api.unknownAction(CapUpdate)
	api.respond("shorturl", map[string]any{
		"status":  "fail",
		"code":    "error:keyword",
		"message": "Short URL docs already exists",
	})
	c := api.client(t)

	_, err := c.UpdateShortURL(context.Background(), "docs", "https://example.com/v2", "New Title", false)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "update plugin") {
		t.Fatalf("error must explain the missing plugin, got %q", err.Error())
	}
}

func TestUpdateShortURL_Validation(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t)

	if _, err := c.UpdateShortURL(context.Background(), "", "https://example.com/", "", false); !IsValidation(err) {
		t.Fatalf("expected validation error for empty keyword, got %v", err)
	}
	if _, err := c.UpdateShortURL(context.Background(), "docs", "ftp://example.com/", "", false); !IsValidation(err) {
		t.Fatalf("expected validation error for bad scheme, got %v", err)
	}
}
