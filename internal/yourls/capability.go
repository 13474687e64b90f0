package yourls

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Capability names an optional YOURLS plugin action. The client never
// assumes one is installed; it probes the action once per process and falls
// back to core-action emulation when the probe says the action is unknown.
const (
	CapUpdate        = "update"             // API Edit URL plugin
	CapChangeKeyword = "change_keyword"     // keyword rename plugin
	CapGetURL        = "geturl"             // keyword-by-destination lookup plugin
	CapDelete        = "delete"             // API Delete plugin
	CapList          = "list"               // API List Extended plugin
	CapAnalytics     = "shorturl_analytics" // per-day click analytics plugin
	CapURLExists     = "url_exists"         // destination existence-check plugin
)

// probes maps each capability to the action and synthetic dummy params used
// to detect it. The dummy values only need to get past the action router;
// the server rejecting them for business reasons still proves the action
// exists.
var probes = map[string]map[string]string{
	CapUpdate:        {"shorturl": "yourlsmcpprobe", "url": "https://example.com/"},
	CapChangeKeyword: {"old_keyword": "yourlsmcpprobe", "new_keyword": "yourlsmcpprobe2"},
	CapGetURL:        {"url": "https://example.com/yourls-mcp-probe"},
	CapDelete:        {"shorturl": "yourlsmcpprobe"},
	CapList:          {"perpage": "1"},
	CapAnalytics:     {"shorturl": "yourlsmcpprobe", "date": "1970-01-01"},
	CapURLExists:     {"url": "https://example.com/yourls-mcp-probe"},
}

// Capabilities caches which optional server actions are installed.
// Explicitly constructed and owned by the Client; never a package global.
type Capabilities struct {
	client *Client

	mu       sync.RWMutex
	resolved map[string]bool

	// group guarantees at most one in-flight probe per capability key;
	// concurrent callers for the same key share the one resolved boolean.
	group singleflight.Group
}

func newCapabilities(c *Client) *Capabilities {
	return &Capabilities{
		client:   c,
		resolved: make(map[string]bool),
	}
}

// Available reports whether the named capability is installed on the server,
// probing it on first use. The resolved boolean is cached for the process
// lifetime (or until Reset).
//
// Fail-open rule: only the specific "unknown action" response proves
// absence. A probe that succeeds, or fails for any unrelated reason (the
// dummy URL already exists, bad probe params, even a transport failure),
// counts as available; the real call will surface the real error.
func (cp *Capabilities) Available(ctx context.Context, capability string) bool {
	cp.mu.RLock()
	v, ok := cp.resolved[capability]
	cp.mu.RUnlock()
	if ok {
		return v
	}

	result, _, _ := cp.group.Do(capability, func() (any, error) {
		// Re-check under the flight: a previous flight may have
		// resolved the key between the cache miss and Do.
		cp.mu.RLock()
		v, ok := cp.resolved[capability]
		cp.mu.RUnlock()
		if ok {
			return v, nil
		}

		available := cp.probe(ctx, capability)

		cp.mu.Lock()
		cp.resolved[capability] = available
		cp.mu.Unlock()

		slog.Info("capability probe resolved", "capability", capability, "available", available)
		return available, nil
	})
	return result.(bool)
}

func (cp *Capabilities) probe(ctx context.Context, capability string) bool {
	params, ok := probes[capability]
	if !ok {
		return false
	}
	_, err := cp.client.do(ctx, capability, params)
	if err != nil && IsCapabilityAbsent(err) {
		return false
	}
	return true
}

// Reset clears the given capabilities from the cache, or all of them when
// called with no arguments. Used by tests and by operators after installing
// a plugin mid-flight.
func (cp *Capabilities) Reset(capabilities ...string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if len(capabilities) == 0 {
		cp.resolved = make(map[string]bool)
		return
	}
	for _, c := range capabilities {
		delete(cp.resolved, c)
	}
}
