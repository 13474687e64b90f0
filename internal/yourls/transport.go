package yourls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// do issues one form-encoded POST against the API endpoint. Every request
// carries action, format=json, the caller's params and the auth fields; auth
// and caller params use disjoint key sets by construction.
//
// YOURLS reports most failures inside a 200 body, so the body is classified
// regardless of HTTP status. The returned error is always an *APIError.
func (c *Client) do(ctx context.Context, action string, params map[string]string) (map[string]any, error) {
	form := url.Values{}
	form.Set("action", action)
	form.Set("format", "json")
	for k, v := range params {
		form.Set(k, v)
	}
	for k, vs := range c.authParams(c.now()) {
		form[k] = vs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, newValidationError("build request for %s: %v", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	slog.Debug("yourls request", "action", action)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("no response for action %s: %v", action, err),
			err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:       KindTransport,
			Message:    fmt.Sprintf("read response for action %s: %v", action, err),
			HTTPStatus: resp.StatusCode,
			err:        err,
		}
	}

	return classify(resp.StatusCode, body)
}

// FetchBinary retrieves arbitrary binary content by URL via plain GET.
// Used for QR image retrieval, which the QR plugin serves from a derived
// URL rather than the API endpoint.
func (c *Client) FetchBinary(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", newValidationError("build request for %s: %v", rawURL, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &APIError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("no response for %s: %v", rawURL, err),
			err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &APIError{
			Kind:       KindTransport,
			Message:    fmt.Sprintf("read response for %s: %v", rawURL, err),
			HTTPStatus: resp.StatusCode,
			err:        err,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &APIError{
			Kind:       KindRemote,
			Message:    fmt.Sprintf("fetch %s: HTTP %d", rawURL, resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// classify maps a raw API response into the closed error-kind set. It runs
// once at the transport boundary so nothing downstream ever inspects loose
// response fields to tell failure categories apart.
func classify(httpStatus int, body []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		if httpStatus < 200 || httpStatus >= 300 {
			return nil, &APIError{
				Kind:       KindRemote,
				Message:    fmt.Sprintf("HTTP %d: %s", httpStatus, truncate(string(body), 200)),
				HTTPStatus: httpStatus,
			}
		}
		return nil, &APIError{
			Kind:       KindRemote,
			Message:    fmt.Sprintf("unparseable response: %s", truncate(string(body), 200)),
			HTTPStatus: httpStatus,
			err:        err,
		}
	}

	message := strField(raw, "message")
	code := strField(raw, "code")
	status := strField(raw, "status")
	errorCode := intField(raw, "errorCode")
	lower := strings.ToLower(message)

	// "Unknown or missing 'action' parameter" is the one response that
	// proves an action is not installed.
	if strings.Contains(lower, "unknown or missing") && strings.Contains(lower, "action") ||
		strings.Contains(lower, "unknown action") {
		return nil, &APIError{
			Kind:       KindCapabilityAbsent,
			Code:       code,
			Message:    message,
			HTTPStatus: httpStatus,
			Raw:        raw,
		}
	}

	if errorCode == 404 || httpStatus == 404 || strings.Contains(lower, "not found") {
		return nil, &APIError{
			Kind:       KindNotFound,
			Code:       code,
			Message:    message,
			HTTPStatus: httpStatus,
			Raw:        raw,
		}
	}

	// shorturl refuses a taken keyword with code error:keyword.
	if code == "error:keyword" {
		return nil, &APIError{
			Kind:       KindConflict,
			Code:       code,
			Message:    message,
			HTTPStatus: httpStatus,
			Raw:        raw,
		}
	}

	failed := status == "fail" ||
		(errorCode != 0 && errorCode != 200) ||
		httpStatus < 200 || httpStatus >= 300
	if failed {
		return nil, &APIError{
			Kind:       KindRemote,
			Code:       code,
			Message:    message,
			HTTPStatus: httpStatus,
			Raw:        raw,
		}
	}

	return raw, nil
}

func strField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// toInt tolerates YOURLS returning numbers as either JSON numbers or
// strings, which it does inconsistently between actions.
func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		var i int
		fmt.Sscanf(n, "%d", &i)
		return i
	}
	return 0
}

func intField(m map[string]any, key string) int { return toInt(m[key]) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
