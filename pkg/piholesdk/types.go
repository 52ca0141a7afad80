package piholesdk

import (
	"bytes"
	"errors"
)

// ============================================================================
// Error shape
// ============================================================================

// ErrorResponse is the body Pi-hole returns for failed requests.
type ErrorResponse struct {
	Error *ErrorDetails `json:"error" validate:"required"`
	Took  float64       `json:"took"`
}

// ErrorDetails is the payload of ErrorResponse.
type ErrorDetails struct {
	Key     string  `json:"key" validate:"required"`
	Message string  `json:"message"`
	Hint    *string `json:"hint"`
}

// ============================================================================
// Authentication
// ============================================================================

// AuthRequest is the body of POST /api/auth.
type AuthRequest struct {
	Password string `json:"password"`

	// TOTP is the current second factor code when two-factor auth is enabled.
	TOTP *int `json:"totp,omitempty"`
}

// AuthResponse is the success body of POST /api/auth.
type AuthResponse struct {
	Session *AuthSession `json:"session" validate:"required"`
	Took    float64      `json:"took"`
}

// AuthSession describes the session issued by POST /api/auth. Pi-hole answers
// a wrong password with this shape and Valid=false.
type AuthSession struct {
	Valid    bool   `json:"valid"`
	TOTP     bool   `json:"totp"`
	SID      string `json:"sid"`
	CSRF     string `json:"csrf"`
	Validity int    `json:"validity"`
	Message  string `json:"message"`
}

// ============================================================================
// Groups
// ============================================================================

// GroupsResponse is returned by the /api/groups endpoints.
type GroupsResponse struct {
	Groups    []Group    `json:"groups" validate:"required,dive"`
	Processed *Processed `json:"processed,omitempty"`
	Took      float64    `json:"took"`
}

// Group is a Pi-hole group as reported by the API.
type Group struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name" validate:"required"`
	Comment      *string `json:"comment"`
	Enabled      bool    `json:"enabled"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

// GroupRequest is the body of POST /api/groups.
type GroupRequest struct {
	Name    string  `json:"name"`
	Comment *string `json:"comment,omitempty"`
	Enabled bool    `json:"enabled"`
}

// ============================================================================
// Clients
// ============================================================================

// ClientsResponse is returned by the /api/clients endpoints, including updates.
type ClientsResponse struct {
	Clients   []ClientEntry `json:"clients" validate:"required,dive"`
	Processed *Processed    `json:"processed,omitempty"`
	Took      float64       `json:"took"`
}

// ClientEntry is a Pi-hole client entry as reported by the API. The entry's
// address, MAC or hostname is in the Client field.
type ClientEntry struct {
	ID           uint    `json:"id"`
	Client       string  `json:"client" validate:"required"`
	Name         *string `json:"name"`
	Comment      *string `json:"comment"`
	Groups       []uint  `json:"groups"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

// ClientRequest is the body of PUT /api/clients/{id}. Groups replaces the
// client's whole group set.
type ClientRequest struct {
	Comment string `json:"comment"`
	Groups  []uint `json:"groups"`
}

// CreateClientRequest is the body of POST /api/clients.
type CreateClientRequest struct {
	Client  string `json:"client"`
	Comment string `json:"comment"`
	Groups  []uint `json:"groups"`
}

// Processed reports per-item results of batch write endpoints.
type Processed struct {
	Success []ProcessedItem `json:"success"`
	Errors  []ProcessedItem `json:"errors"`
}

// ProcessedItem is one entry of Processed.
type ProcessedItem struct {
	Item  string `json:"item"`
	Error string `json:"error,omitempty"`
}

// ============================================================================
// Actions
// ============================================================================

// ActionResponse is returned by the /api/action endpoints.
type ActionResponse struct {
	Status string  `json:"status" validate:"required"`
	Took   float64 `json:"took"`
}

// NoContent is the success shape of endpoints that answer 204. It only
// matches an empty body, null or an empty object.
type NoContent struct{}

var errUnexpectedContent = errors.New("expected no content")

// UnmarshalJSON implements json.Unmarshaler.
func (*NoContent) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "", "null", "{}":
		return nil
	default:
		return errUnexpectedContent
	}
}
