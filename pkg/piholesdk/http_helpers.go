package piholesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

const (
	headerSID  = "X-FTL-SID"
	headerCSRF = "X-FTL-CSRF"
)

var errEmptyBody = errors.New("empty response body")

// shapes checks required fields after decoding. A body of the other shape
// decodes without error into any struct, so validation is what tells them apart.
var shapes = validator.New(validator.WithRequiredStructEnabled())

// url builds a complete URL by appending the endpoint to the base URL.
func (c *Client) url(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.BaseURL + endpoint
}

// execute sends one request and decodes the response as T or as the Pi-hole
// error shape. Authenticated calls on an anonymous session fail before any
// network traffic.
func execute[T any](
	ctx context.Context,
	c *Client,
	method, endpoint string,
	body any,
	authRequired bool,
) (*T, error) {
	logger := slogx.FromContext(ctx)
	target := c.url(endpoint)

	var session Session
	if authRequired {
		session = c.session.Current()
		if !session.Authenticated() {
			return nil, ErrAuthenticationRequired
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authRequired {
		req.Header.Set(headerSID, session.ID)
		req.Header.Set(headerCSRF, session.CSRF)
	}

	logger.Debug("pihole request", "method", method, "endpoint", endpoint, "authenticated", authRequired)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	slogx.Trace(ctx, logger, "pihole response", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode == http.StatusNoContent {
		return new(T), nil
	}

	return decodeResponse[T](resp.StatusCode, raw)
}

// decodeResponse tries the success shape first, then the error shape.
func decodeResponse[T any](status int, raw []byte) (*T, error) {
	var out T
	successErr := decodeShape(raw, &out)
	if successErr == nil {
		return &out, nil
	}

	var apiErr ErrorResponse
	errorErr := decodeShape(raw, &apiErr)
	if errorErr == nil {
		e := &APIError{
			StatusCode: status,
			Key:        apiErr.Error.Key,
			Message:    apiErr.Error.Message,
		}
		if apiErr.Error.Hint != nil {
			e.Hint = *apiErr.Error.Hint
		}
		return nil, e
	}

	return nil, &MalformedResponseError{
		StatusCode: status,
		SuccessErr: successErr,
		ErrorErr:   errorErr,
	}
}

func decodeShape(raw []byte, target any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		if _, ok := target.(*NoContent); ok {
			return nil
		}
		return errEmptyBody
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if _, ok := target.(*NoContent); ok {
		return nil
	}
	if err := shapes.Struct(target); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
