package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

func newTestClient(t *testing.T, handler http.Handler) *yourls.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := yourls.New(yourls.Config{
		APIURL:   srv.URL,
		AuthMode: yourls.AuthPassword,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

// decodeEnvelope parses the JSON envelope out of a text content block.
func decodeEnvelope(t *testing.T, c mcpserver.Content) map[string]any {
	t.Helper()
	if c.Type != "text" {
		t.Fatalf("expected text content, got %q", c.Type)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(c.Text), &out); err != nil {
		t.Fatalf("invalid envelope JSON: %v\n%s", err, c.Text)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestShortenURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.Form.Get("action"); got != "shorturl" {
			t.Errorf("unexpected action %q", got)
		}
		if got := r.Form.Get("username"); got != "admin" {
			t.Errorf("missing username in request, got %q", got)
		}
		writeJSON(w, map[string]any{
			"status":   "success",
			"shorturl": "https://sho.rt/abc",
			"url": map[string]any{
				"keyword": "abc",
				"url":     r.Form.Get("url"),
			},
		})
	}))

	tool := NewShortenURLTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{"url": "https://example.com/page"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}

	env := decodeEnvelope(t, res.Content[0])
	if env["status"] != "success" {
		t.Fatalf("expected status success, got %v", env["status"])
	}
	result := env["result"].(map[string]any)
	if result["shorturl"] != "https://sho.rt/abc" {
		t.Fatalf("unexpected shorturl: %v", result["shorturl"])
	}
	if result["keyword"] != "abc" {
		t.Fatalf("unexpected keyword: %v", result["keyword"])
	}
}

func TestShortenURL_MissingArgument(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for invalid arguments")
	}))

	tool := NewShortenURLTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	env := decodeEnvelope(t, res.Content[0])
	if env["status"] != "error" {
		t.Fatalf("expected status error, got %v", env["status"])
	}
}

func TestExpandURL_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"errorCode": 404,
			"message":   "Error: short URL not found",
		})
	}))

	tool := NewExpandURLTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{"shorturl": "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	env := decodeEnvelope(t, res.Content[0])
	if env["status"] != "error" {
		t.Fatalf("expected status error, got %v", env["status"])
	}
	if env["code"] != "not_found" {
		t.Fatalf("expected code not_found, got %v", env["code"])
	}
}

func TestCreateCustomURL_KeywordConflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch r.Form.Get("action") {
		case "expand":
			writeJSON(w, map[string]any{
				"keyword":  "taken",
				"shorturl": "https://sho.rt/taken",
				"longurl":  "https://other.example.com/",
			})
		default:
			t.Errorf("unexpected action %q", r.Form.Get("action"))
		}
	}))

	tool := NewCreateCustomURLTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{
		"url":     "https://example.com/page",
		"keyword": "taken",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected error result for keyword conflict")
	}
	env := decodeEnvelope(t, res.Content[0])
	if env["code"] != "conflict" {
		t.Fatalf("expected code conflict, got %v", env["code"])
	}
}

func TestDeleteShortURL_WithoutPlugin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch r.Form.Get("action") {
		case "delete":
			writeJSON(w, map[string]any{
				"errorCode": 400,
				"message":   "Unknown or missing 'action' parameter",
			})
		case "expand":
			writeJSON(w, map[string]any{
				"keyword":  "abc",
				"shorturl": "https://sho.rt/abc",
				"longurl":  "https://example.com/page",
			})
		default:
			t.Errorf("unexpected action %q", r.Form.Get("action"))
		}
	}))

	tool := NewDeleteShortURLTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{"shorturl": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("informational outcome must not be an error: %+v", res)
	}

	env := decodeEnvelope(t, res.Content[0])
	if env["status"] != "info" {
		t.Fatalf("expected status info, got %v", env["status"])
	}
	result := env["result"].(map[string]any)
	if result["deleted"] != false {
		t.Fatalf("expected deleted=false, got %v", result["deleted"])
	}
	if result["used_fallback"] != true {
		t.Fatalf("expected used_fallback=true, got %v", result["used_fallback"])
	}
}

func TestGenerateQRCode(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/abc.qr" {
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
			return
		}
		r.ParseForm()
		if r.Form.Get("action") != "expand" {
			t.Errorf("unexpected action %q", r.Form.Get("action"))
		}
		writeJSON(w, map[string]any{
			"keyword":  "abc",
			"shorturl": srvURL + "/abc",
			"longurl":  "https://example.com/page",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client, err := yourls.New(yourls.Config{
		APIURL:   srv.URL,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}

	tool := NewGenerateQRCodeTool(client)
	res, err := tool.Execute(context.Background(), map[string]any{"shorturl": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	if len(res.Content) != 2 {
		t.Fatalf("expected image plus metadata, got %d blocks", len(res.Content))
	}
	if res.Content[0].Type != "image" || res.Content[0].MimeType != "image/png" {
		t.Fatalf("unexpected image block: %+v", res.Content[0])
	}
	env := decodeEnvelope(t, res.Content[1])
	if env["status"] != "success" {
		t.Fatalf("expected status success, got %v", env["status"])
	}
}

func TestAll_RegistersEveryTool(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{})
	}))

	want := []string{
		"shorten_url", "expand_url", "url_stats", "db_stats",
		"create_custom_url", "update_short_url", "change_keyword",
		"delete_short_url", "get_url_keyword", "list_urls",
		"url_analytics", "check_url_exists", "generate_qr_code",
	}

	all := All(client)
	if len(all) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(all))
	}
	seen := map[string]bool{}
	for i, tool := range all {
		if tool.Name() != want[i] {
			t.Errorf("tool %d: expected %q, got %q", i, want[i], tool.Name())
		}
		if seen[tool.Name()] {
			t.Errorf("duplicate tool name %q", tool.Name())
		}
		seen[tool.Name()] = true
		if tool.Description() == "" {
			t.Errorf("tool %q has no description", tool.Name())
		}
		if tool.InputSchema() == nil {
			t.Errorf("tool %q has no input schema", tool.Name())
		}
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"s":       "text",
		"b":       true,
		"bs":      "true",
		"n":       float64(42),
		"ns":      "17",
		"fields":  []any{"keyword", "clicks", 3},
		"missing": nil,
	}

	if argString(args, "s") != "text" {
		t.Error("argString failed")
	}
	if !argBool(args, "b") || !argBool(args, "bs") || argBool(args, "missing") {
		t.Error("argBool failed")
	}
	if argInt(args, "n") != 42 || argInt(args, "ns") != 17 || argInt(args, "missing") != 0 {
		t.Error("argInt failed")
	}
	got := argStrings(args, "fields")
	if fmt.Sprint(got) != "[keyword clicks]" {
		t.Errorf("argStrings: %v", got)
	}
}
