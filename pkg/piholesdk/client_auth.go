package piholesdk

import (
	"context"
	"fmt"
	"net/http"
)

const endpointAuth = "/api/auth"

// Authenticate logs in with the web interface password and stores the issued
// session. An invalid session in the response is reported as an APIError with
// key "unauthorized".
func (c *Client) Authenticate(ctx context.Context, password string) (*AuthSession, error) {
	return c.authenticate(ctx, AuthRequest{Password: password})
}

// AuthenticateTOTP logs in with the password and the current two-factor code.
func (c *Client) AuthenticateTOTP(ctx context.Context, password string, code int) (*AuthSession, error) {
	return c.authenticate(ctx, AuthRequest{Password: password, TOTP: &code})
}

func (c *Client) authenticate(ctx context.Context, req AuthRequest) (*AuthSession, error) {
	resp, err := execute[AuthResponse](ctx, c, http.MethodPost, endpointAuth, req, false)
	if err != nil {
		return nil, err
	}

	session := resp.Session
	if !session.Valid || session.SID == "" || session.CSRF == "" {
		msg := session.Message
		if msg == "" {
			msg = "session is not valid"
		}
		return nil, &APIError{
			StatusCode: http.StatusUnauthorized,
			Key:        "unauthorized",
			Message:    msg,
		}
	}

	if err := c.session.Set(session.SID, session.CSRF, session.Validity); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// EndSession logs out. The local session is cleared whatever the server says.
func (c *Client) EndSession(ctx context.Context) error {
	defer c.session.Clear()

	_, err := execute[NoContent](ctx, c, http.MethodDelete, endpointAuth, nil, true)
	return err
}
