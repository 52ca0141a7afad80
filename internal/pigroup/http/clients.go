package http

import (
	"net/http"

	"github.com/aussiebroadwan/pigroup/pkg/httpx"
)

type ClientsHandler struct {
	Service Service
}

// ServeHTTP lists every client with its group ids.
//
//	@Summary		List clients
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{object}	ListClientsResponse	"Clients ordered by id"
//	@Failure		401	{object}	httpx.ErrorBody		"Missing or invalid token"
//	@Failure		502	{object}	httpx.ErrorBody		"Pi-hole error"
//	@Security		BearerAuth
//	@Router			/v1/clients [get].
func (h *ClientsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.Clients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewListClientsResponse(clients))
}
