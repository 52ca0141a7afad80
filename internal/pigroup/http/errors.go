package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/membership"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/store"
	"github.com/aussiebroadwan/pigroup/pkg/httpx"
	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

// writeServiceError maps workflow and backend failures to HTTP statuses.
// Upstream details are only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		apiErr       *piholesdk.APIError
		transportErr *piholesdk.TransportError
		malformedErr *piholesdk.MalformedResponseError
	)

	switch {
	case errors.Is(err, membership.ErrGroupNotFound), errors.Is(err, membership.ErrClientNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, membership.ErrUnknownOp):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, errors.ErrUnsupported):
		httpx.WriteError(w, http.StatusNotImplemented, "not_supported", err.Error())
	case errors.Is(err, store.ErrConstraintViolation):
		log.Warn("membership write conflicted", "error", err)
		httpx.WriteError(w, http.StatusConflict, "conflict", "Membership changed concurrently")
	case errors.As(err, &transportErr):
		log.Error("pihole unreachable", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			httpx.WriteError(w, http.StatusGatewayTimeout, "upstream_timeout", "Pi-hole did not respond in time")
			return
		}
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "Pi-hole is unreachable")
	case errors.As(err, &apiErr):
		log.Error("pihole rejected request", "error", err, "status", apiErr.StatusCode, "key", apiErr.Key)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "Pi-hole rejected the request: "+apiErr.Key)
	case errors.As(err, &malformedErr):
		log.Error("pihole sent an unexpected response", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "Pi-hole sent an unexpected response")
	default:
		log.Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
