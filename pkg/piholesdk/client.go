package piholesdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when the caller does not supply an
// http.Client of their own.
const DefaultTimeout = 10 * time.Second

// Client talks to the Pi-hole v6 REST API. It owns the session obtained from
// Authenticate and attaches it to every authenticated call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	session *SessionStore
}

// NewClient creates a client for the Pi-hole at baseURL. A bare host such as
// "pi.hole:8080" is treated as plain http.
func NewClient(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		session: NewSessionStore(),
	}
}

// Session returns the store holding the client's current session.
func (c *Client) Session() *SessionStore {
	return c.session
}
