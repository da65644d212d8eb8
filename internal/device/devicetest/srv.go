// Package devicetest provides a fake Shelly device for tests.
package devicetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// Server serves /status like a Shelly Plug S. The zero power value is
// served until SetPower is called.
type Server struct {
	// Addr holds the host:port the server listens on.
	Addr string

	srv *httptest.Server

	mu       sync.Mutex
	powers   []float64
	fail     []int
	body     string
	requests int
}

// NewServer starts a fake device.
func NewServer() *Server {
	s := &Server{powers: []float64{0}}
	router := httprouter.New()
	router.GET("/status", s.serveStatus)
	s.srv = httptest.NewServer(router)
	s.Addr = s.srv.Listener.Addr().String()
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// SetPower makes every subsequent request report p.
func (s *Server) SetPower(p float64) {
	s.SetSequence(p)
}

// SetSequence makes successive successful requests report the given
// values in order, repeating the last one once exhausted.
func (s *Server) SetSequence(ps ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powers = append([]float64(nil), ps...)
}

// FailWith makes the next requests respond with the given HTTP status
// codes, one per request, before returning to normal service.
func (s *Server) FailWith(codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = append(s.fail, codes...)
}

// SetBody makes every subsequent request return body verbatim.
func (s *Server) SetBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) serveStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if len(s.fail) > 0 {
		code := s.fail[0]
		s.fail = s.fail[1:]
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if s.body != "" {
		w.Write([]byte(s.body))
		return
	}

	p := s.powers[0]
	if len(s.powers) > 1 {
		s.powers = s.powers[1:]
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"wifi_sta": map[string]interface{}{"connected": true},
		"relays":   []map[string]interface{}{{"ison": true}},
		"meters": []map[string]interface{}{{
			"power":     p,
			"is_valid":  true,
			"overpower": 0,
			"total":     1234,
		}},
	})
}
