package http

import (
	"net/http"

	"github.com/aussiebroadwan/pigroup/pkg/httpx"
)

type GroupsHandler struct {
	Service Service
}

// ServeHTTP lists every group known to the backend.
//
//	@Summary		List groups
//	@Tags			Groups
//	@Produce		json
//	@Success		200	{object}	ListGroupsResponse	"Groups ordered by id"
//	@Failure		401	{object}	httpx.ErrorBody		"Missing or invalid token"
//	@Failure		502	{object}	httpx.ErrorBody		"Pi-hole error"
//	@Security		BearerAuth
//	@Router			/v1/groups [get].
func (h *GroupsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.Groups(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, NewListGroupsResponse(groups))
}
