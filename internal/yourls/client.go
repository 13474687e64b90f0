// Package yourls implements a client for the YOURLS URL-shortener API.
//
// YOURLS guarantees only a small core action set (shorturl, expand,
// url-stats, stats, db-stats); everything richer lives in optional server
// plugins. The client probes for those plugins once per process and, when a
// plugin is missing, emulates its behavior from the core actions. Every
// emulated result says so explicitly instead of pretending to be native.
package yourls

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds the connection settings for one YOURLS instance.
// Constructed once at startup and immutable afterwards.
type Config struct {
	// APIURL is the full endpoint, e.g. https://sho.rt/yourls-api.php.
	APIURL string

	AuthMode AuthMode

	// Username/Password are required in password mode.
	Username string
	Password string

	// SignatureToken is required in signature mode.
	SignatureToken string

	// SignatureTTL is the server's accepted timestamp window. The client
	// never enforces it; it exists so operators can keep config and server
	// settings in one place.
	SignatureTTL time.Duration

	// Timeout bounds each HTTP call. Defaults to 30s.
	Timeout time.Duration
}

// Validate checks that the selected auth mode has its credentials.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("yourls: api url is required")
	}
	switch c.AuthMode {
	case AuthPassword, "":
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("yourls: password auth requires both username and password")
		}
	case AuthSignature:
		if c.SignatureToken == "" {
			return fmt.Errorf("yourls: signature auth requires a signature token")
		}
	default:
		return fmt.Errorf("yourls: unknown auth mode %q", c.AuthMode)
	}
	return nil
}

// Client talks to a single YOURLS instance. Safe for concurrent use; the
// capability cache is the only mutable state and handles its own locking.
type Client struct {
	cfg  Config
	http *http.Client
	caps *Capabilities
	now  func() time.Time
}

// New creates a Client. The config must already be validated; New validates
// again so the zero-config misuse fails fast.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthPassword
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
	c.caps = newCapabilities(c)
	return c, nil
}

// Capabilities exposes the capability cache, mainly so tests can reset it.
func (c *Client) Capabilities() *Capabilities { return c.caps }
