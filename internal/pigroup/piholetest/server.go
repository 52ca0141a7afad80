// Package piholetest provides an in-memory Pi-hole API server for tests.
package piholetest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
)

// Request records one call received by the server.
type Request struct {
	Method string
	Path   string
}

// Server mimics the subset of the Pi-hole v6 API used by pigroup. Clients are
// addressed by id, groups by name.
type Server struct {
	*httptest.Server

	password string

	mu       sync.Mutex
	groups   []piholesdk.Group
	clients  []piholesdk.ClientEntry
	sessions map[string]string
	requests []Request
	restarts int
}

// New starts a server accepting password and registers its shutdown with t.
func New(t testing.TB, password string) *Server {
	t.Helper()

	s := &Server{
		password: password,
		sessions: make(map[string]string),
		groups:   []piholesdk.Group{{ID: 0, Name: "Default", Enabled: true}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", s.login)
	mux.HandleFunc("DELETE /api/auth", s.authed(s.logout))
	mux.HandleFunc("GET /api/groups", s.authed(s.listGroups))
	mux.HandleFunc("GET /api/groups/{name}", s.authed(s.getGroup))
	mux.HandleFunc("POST /api/groups", s.authed(s.createGroup))
	mux.HandleFunc("GET /api/clients", s.authed(s.listClients))
	mux.HandleFunc("GET /api/clients/{id}", s.authed(s.getClient))
	mux.HandleFunc("PUT /api/clients/{id}", s.authed(s.updateClient))
	mux.HandleFunc("POST /api/clients", s.authed(s.createClient))
	mux.HandleFunc("POST /api/action/restartdns", s.authed(s.restartDNS))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not found")
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path})
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

// AddGroup seeds a group.
func (s *Server) AddGroup(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, piholesdk.Group{ID: id, Name: name, Enabled: true})
}

// AddClient seeds a client.
func (s *Server) AddClient(id uint, address, comment string, groups ...uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if groups == nil {
		groups = []uint{}
	}
	s.clients = append(s.clients, piholesdk.ClientEntry{ID: id, Client: address, Comment: &comment, Groups: groups})
}

// ClientGroups returns the group ids of client id as stored by the server.
func (s *Server) ClientGroups(id uint) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			return slices.Clone(c.Groups)
		}
	}
	return nil
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Mutations counts requests that change clients or groups.
func (s *Server) Mutations() int {
	n := 0
	for _, r := range s.Requests() {
		switch {
		case r.Path == "/api/auth", r.Path == "/api/action/restartdns":
		case r.Method == http.MethodPut, r.Method == http.MethodPost:
			n++
		}
	}
	return n
}

// ActiveSessions is the number of sessions not yet logged out.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Restarts is the number of restartdns actions received.
func (s *Server) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}

// ExpireSessions forgets every session, as FTL does after the validity period.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		csrf, ok := s.sessions[r.Header.Get("X-FTL-SID")]
		s.mu.Unlock()
		if !ok || csrf != r.Header.Get("X-FTL-CSRF") {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req piholesdk.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	if req.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"session": map[string]any{"valid": false, "totp": false, "sid": nil, "validity": -1, "message": "password incorrect"},
			"took":    0.001,
		})
		return
	}

	sid, csrf := token(), token()
	s.mu.Lock()
	s.sessions[sid] = csrf
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"session": piholesdk.AuthSession{Valid: true, SID: sid, CSRF: csrf, Validity: 1800, Message: "password correct"},
		"took":    0.001,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.sessions, r.Header.Get("X-FTL-SID"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	groups := slices.Clone(s.groups)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, piholesdk.GroupsResponse{Groups: groups})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	groups := []piholesdk.Group{}

	s.mu.Lock()
	for _, g := range s.groups {
		if g.Name == name {
			groups = append(groups, g)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, piholesdk.GroupsResponse{Groups: groups})
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req piholesdk.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}

	s.mu.Lock()
	var next uint
	for _, g := range s.groups {
		if g.Name == req.Name {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "database_error", "UNIQUE constraint failed: group.name")
			return
		}
		next = max(next, g.ID)
	}
	g := piholesdk.Group{ID: next + 1, Name: req.Name, Comment: req.Comment, Enabled: req.Enabled}
	s.groups = append(s.groups, g)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, piholesdk.GroupsResponse{Groups: []piholesdk.Group{g}})
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	clients := append([]piholesdk.ClientEntry{}, s.clients...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, piholesdk.ClientsResponse{Clients: clients})
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			writeJSON(w, http.StatusOK, piholesdk.ClientsResponse{Clients: []piholesdk.ClientEntry{c}})
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "Client not found")
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req piholesdk.ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Groups == nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.clients {
		if c.ID == id {
			comment := req.Comment
			s.clients[i].Comment = &comment
			s.clients[i].Groups = slices.Clone(req.Groups)
			writeJSON(w, http.StatusOK, piholesdk.ClientsResponse{Clients: []piholesdk.ClientEntry{s.clients[i]}})
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "Client not found")
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var req piholesdk.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}

	s.mu.Lock()
	var next uint
	for _, c := range s.clients {
		next = max(next, c.ID)
	}
	comment := req.Comment
	c := piholesdk.ClientEntry{ID: next + 1, Client: req.Client, Comment: &comment, Groups: append([]uint{}, req.Groups...)}
	s.clients = append(s.clients, c)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, piholesdk.ClientsResponse{Clients: []piholesdk.ClientEntry{c}})
}

func (s *Server) restartDNS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.restarts++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, piholesdk.ActionResponse{Status: "success"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid client id")
		return 0, false
	}
	return uint(id), true
}

func token() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, key, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"key": key, "message": message, "hint": nil},
		"took":  0.001,
	})
}
