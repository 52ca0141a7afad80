package piholesdk

import (
	"context"
	"net/http"
)

// RestartDNS asks FTL to restart its resolver so group changes take effect
// for cached lookups.
func (c *Client) RestartDNS(ctx context.Context) (*ActionResponse, error) {
	return execute[ActionResponse](ctx, c, http.MethodPost, "/api/action/restartdns", nil, true)
}
