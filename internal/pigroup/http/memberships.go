package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/membership"
	"github.com/aussiebroadwan/pigroup/pkg/httpx"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

const maxBodyBytes = 1 << 16

type MembershipsHandler struct {
	Service  Service
	validate *validator.Validate
}

func NewMembershipsHandler(svc Service) *MembershipsHandler {
	return &MembershipsHandler{
		Service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ServeHTTP adds, removes or flips one client's membership of one group.
//
//	@Summary		Change a membership
//	@Description	Resolves the client by comment and the group by name, then applies the operation.
//	@Description	An operation that would not change anything reports outcome "unchanged".
//	@Tags			Memberships
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MembershipRequest	true	"Operation, client comment and group name"
//	@Success		200		{object}	membership.Result	"Outcome and resulting group ids"
//	@Failure		400		{object}	httpx.ErrorBody		"Invalid request"
//	@Failure		401		{object}	httpx.ErrorBody		"Missing or invalid token"
//	@Failure		404		{object}	httpx.ErrorBody		"Client or group not found"
//	@Failure		409		{object}	httpx.ErrorBody		"Concurrent change"
//	@Failure		502		{object}	httpx.ErrorBody		"Pi-hole error"
//	@Security		BearerAuth
//	@Router			/v1/memberships [post].
func (h *MembershipsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req MembershipRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	op, err := membership.ParseOperation(req.Operation)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.Service.Toggle(r.Context(), op, req.ClientComment, req.GroupName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("membership request handled",
		"outcome", res.Outcome.String(),
		"client_id", res.ClientID,
		"group_id", res.GroupID,
	)
	httpx.WriteJSON(w, http.StatusOK, res)
}

type RestartDNSHandler struct {
	Service Service
}

// ServeHTTP restarts Pi-hole's DNS resolver.
//
//	@Summary		Restart DNS
//	@Tags			Actions
//	@Produce		json
//	@Success		200	{object}	StatusResponse	"Restart requested"
//	@Failure		401	{object}	httpx.ErrorBody	"Missing or invalid token"
//	@Failure		501	{object}	httpx.ErrorBody	"Backend cannot restart DNS"
//	@Failure		502	{object}	httpx.ErrorBody	"Pi-hole error"
//	@Security		BearerAuth
//	@Router			/v1/restart-dns [post].
func (h *RestartDNSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RestartDNS(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}
