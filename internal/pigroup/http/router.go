package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/membership"
	"github.com/aussiebroadwan/pigroup/pkg/httpx"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"

	_ "github.com/aussiebroadwan/pigroup/api/pigroup" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Service is what the handlers need from the application.
type Service interface {
	Toggle(ctx context.Context, op membership.Operation, clientComment, groupName string) (membership.Result, error)
	Groups(ctx context.Context) ([]domain.Group, error)
	Clients(ctx context.Context) ([]domain.Client, error)
	RestartDNS(ctx context.Context) error
	Ready(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	service      Service
	token        string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

// NewRouter builds a router over svc. Every /v1 route requires token as a
// bearer token unless token is empty.
func NewRouter(svc Service, logger *slog.Logger, buildVersion, token string) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		service:      svc,
		token:        token,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerGroups()
	r.registerClients()
	r.registerMemberships()
	r.registerActions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						pigroup API
//	@version					0.1.0
//	@description				Moves Pi-hole clients in and out of groups.
//	@description
//	@description				Every request to a remote backend runs in its own Pi-hole session.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shared API token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerGroups() {
	h := &GroupsHandler{Service: r.service}

	r.Mux.Handle("GET /v1/groups",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ReadLimit),
			httpx.BearerTokenMiddleware(r.token),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{Service: r.service}

	r.Mux.Handle("GET /v1/clients",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ReadLimit),
			httpx.BearerTokenMiddleware(r.token),
		),
	)
}

func (r *Router) registerMemberships() {
	h := NewMembershipsHandler(r.service)

	// Each toggle logs in to Pi-hole, so mutations get the tighter limit.
	r.Mux.Handle("POST /v1/memberships",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.MutationLimit),
			httpx.BearerTokenMiddleware(r.token),
		),
	)
}

func (r *Router) registerActions() {
	h := &RestartDNSHandler{Service: r.service}

	r.Mux.Handle("POST /v1/restart-dns",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.MutationLimit),
			httpx.BearerTokenMiddleware(r.token),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.service),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
}
