package piholesdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const (
	testSID  = "vFA+EP4MQ5JJvJg+3Q2Jnw="
	testCSRF = "Ux87YTIiMOf/GKCefVIOMw="
)

// newTestServer starts an httptest server around handler and returns a client
// pointed at it together with a counter of received requests.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL), &hits
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func hasSession(r *http.Request) bool {
	return r.Header.Get(headerSID) == testSID && r.Header.Get(headerCSRF) == testCSRF
}

const unauthorizedBody = `{"error":{"key":"unauthorized","message":"Unauthorized","hint":null},"took":0.0001}`
