package piholesdk

import (
	"context"
	"net/http"
	"strconv"
)

// ListClients returns every configured client.
func (c *Client) ListClients(ctx context.Context) (*ClientsResponse, error) {
	return execute[ClientsResponse](ctx, c, http.MethodGet, "/api/clients", nil, true)
}

// GetClient fetches one client by id.
func (c *Client) GetClient(ctx context.Context, id uint) (*ClientsResponse, error) {
	return execute[ClientsResponse](ctx, c, http.MethodGet, clientPath(id), nil, true)
}

// UpdateClient replaces the comment and the complete group set of a client.
// Groups not listed in groupIDs are dropped by the server.
func (c *Client) UpdateClient(ctx context.Context, id uint, comment string, groupIDs []uint) (*ClientsResponse, error) {
	if groupIDs == nil {
		groupIDs = []uint{}
	}
	req := ClientRequest{Comment: comment, Groups: groupIDs}
	return execute[ClientsResponse](ctx, c, http.MethodPut, clientPath(id), req, true)
}

// CreateClient adds a client identified by address, MAC or hostname.
func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientsResponse, error) {
	if req.Groups == nil {
		req.Groups = []uint{}
	}
	return execute[ClientsResponse](ctx, c, http.MethodPost, "/api/clients", req, true)
}

func clientPath(id uint) string {
	return "/api/clients/" + strconv.FormatUint(uint64(id), 10)
}
