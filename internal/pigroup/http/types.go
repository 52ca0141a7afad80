package http

import (
	"time"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
)

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Backend string `json:"backend"`
}

type GroupInfo struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Enabled      bool    `json:"enabled"`
	Comment      *string `json:"comment"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

type ListGroupsResponse struct {
	Groups []GroupInfo `json:"groups"`
}

type ClientInfo struct {
	ID           uint   `json:"id"`
	Client       string `json:"client"`
	Name         string `json:"name,omitempty"`
	Comment      string `json:"comment"`
	Groups       []uint `json:"groups"`
	DateAdded    int64  `json:"date_added"`
	DateModified int64  `json:"date_modified"`
}

type ListClientsResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// MembershipRequest asks for one toggle. Operation accepts the CLI names.
type MembershipRequest struct {
	Operation     string `json:"operation" validate:"required,oneof=add append remove flip toggle"`
	ClientComment string `json:"client_comment" validate:"required"`
	GroupName     string `json:"group_name" validate:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// NewListGroupsResponse is the JSON shape of a group listing, shared by the
// CLI's --json output.
func NewListGroupsResponse(groups []domain.Group) ListGroupsResponse {
	resp := ListGroupsResponse{Groups: make([]GroupInfo, len(groups))}
	for i, g := range groups {
		resp.Groups[i] = toGroupInfo(g)
	}
	return resp
}

func NewListClientsResponse(clients []domain.Client) ListClientsResponse {
	resp := ListClientsResponse{Clients: make([]ClientInfo, len(clients))}
	for i, c := range clients {
		resp.Clients[i] = toClientInfo(c)
	}
	return resp
}

func toGroupInfo(g domain.Group) GroupInfo {
	return GroupInfo{
		ID:           g.ID,
		Name:         g.Name,
		Enabled:      g.Enabled,
		Comment:      g.Comment,
		DateAdded:    unix(g.CreatedAt),
		DateModified: unix(g.ModifiedAt),
	}
}

func toClientInfo(c domain.Client) ClientInfo {
	groups := c.GroupIDs
	if groups == nil {
		groups = []uint{}
	}
	return ClientInfo{
		ID:           c.ID,
		Client:       c.Address,
		Name:         c.Name,
		Comment:      c.Comment,
		Groups:       groups,
		DateAdded:    unix(c.CreatedAt),
		DateModified: unix(c.ModifiedAt),
	}
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
