package piholesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListGroups returns every group known to Pi-hole.
func (c *Client) ListGroups(ctx context.Context) (*GroupsResponse, error) {
	return execute[GroupsResponse](ctx, c, http.MethodGet, "/api/groups", nil, true)
}

// GetGroup looks up a group by its exact name. Pi-hole answers with a list
// that holds at most one entry.
func (c *Client) GetGroup(ctx context.Context, name string) (*GroupsResponse, error) {
	return execute[GroupsResponse](ctx, c, http.MethodGet, "/api/groups/"+url.PathEscape(name), nil, true)
}

// CreateGroup adds a new group.
func (c *Client) CreateGroup(ctx context.Context, req GroupRequest) (*GroupsResponse, error) {
	return execute[GroupsResponse](ctx, c, http.MethodPost, "/api/groups", req, true)
}
