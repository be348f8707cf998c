// Package gametest provides an in-process stand-in for the remote game
// service: session and anti-forgery cookies, get-or-create users and point
// increments with the service's validation rules.
package gametest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/go-ports/agame/internal/models"
)

// Cookie names issued by the service.
const (
	SessionCookie = "agame_session"
	CSRFCookie    = "agame_csrf"
)

// DefaultContent mirrors the production ui.json.
var DefaultContent = models.UIContent{
	Title:       "A Game",
	Loading:     "Loading...",
	ErrorPrefix: "Error:",
	PointsLabel: "pts",
	UserLabel:   "User:",
	Buttons: []models.Button{
		{Amount: 1, Label: "+1 Point"},
		{Amount: 5, Label: "+5 Points"},
		{Amount: 10, Label: "+10 Points"},
	},
}

// Request is one request received by the server.
type Request struct {
	Method string
	Path   string
	Body   string
	CSRF   string
}

// Server is a fake game service backed by httptest.Server.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	sessions    map[string]string // session id -> user id
	users       map[string]*models.User
	requests    []Request
	content     []byte
	userFailure int
	hold        chan struct{}
	enforceCSRF bool
}

// New starts a Server serving DefaultContent and registers cleanup on tb.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		sessions:    make(map[string]string),
		users:       make(map[string]*models.User),
		enforceCSRF: true,
	}
	s.SetContent(DefaultContent)

	mux := http.NewServeMux()
	mux.HandleFunc("/agame/api/user/me/", s.handleMe)
	mux.HandleFunc("/agame/api/user/me/points/", s.handlePoints)
	mux.HandleFunc("/agame/content/ui.json", s.handleContent)
	s.Server = httptest.NewServer(s.record(mux))
	tb.Cleanup(s.Close)
	return s
}

// APIBase returns the base URL of the user/points API.
func (s *Server) APIBase() string { return s.URL + "/agame/api" }

// ContentBase returns the base URL of the content documents.
func (s *Server) ContentBase() string { return s.URL + "/agame/content" }

// SetContent replaces the served ui.json.
func (s *Server) SetContent(c models.UIContent) {
	b, _ := json.Marshal(c)
	s.SetContentRaw(string(b))
}

// SetContentRaw serves body verbatim as ui.json.
func (s *Server) SetContentRaw(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = []byte(body)
}

// EnforceCSRF toggles rejection of point increments without a matching
// anti-forgery token. It is on by default.
func (s *Server) EnforceCSRF(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enforceCSRF = on
}

// FailUser makes GET user/me/ answer with status until reset with 0.
func (s *Server) FailUser(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userFailure = status
}

// Hold blocks point increments until the returned release func is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.hold == ch {
				s.hold = nil
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// PointsRequests returns the requests made to the points endpoint.
func (s *Server) PointsRequests() []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == "/agame/api/user/me/points/" {
			out = append(out, r)
		}
	}
	return out
}

// SetPoints overwrites the stored total of user id.
func (s *Server) SetPoints(id string, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Points = points
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			CSRF:   r.Header.Get("X-CSRFToken"),
		})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	body := s.content
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userFailure != 0 {
		writeError(w, s.userFailure, http.StatusText(s.userFailure))
		return
	}

	if _, err := r.Cookie(CSRFCookie); err != nil {
		http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: uuid.NewString(), Path: "/agame/"})
	}

	if ck, err := r.Cookie(SessionCookie); err == nil {
		if id, ok := s.sessions[ck.Value]; ok {
			if u, ok := s.users[id]; ok {
				writeJSON(w, http.StatusOK, u)
				return
			}
		}
	}

	u := &models.User{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05"),
	}
	s.users[u.ID] = u
	sid := uuid.NewString()
	s.sessions[sid] = u.ID
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sid, Path: "/agame/", HttpOnly: true})
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	hold := s.hold
	s.mu.Unlock()
	if hold != nil {
		<-hold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enforceCSRF {
		ck, err := r.Cookie(CSRFCookie)
		if err != nil || ck.Value == "" || r.Header.Get("X-CSRFToken") != ck.Value {
			writeError(w, http.StatusForbidden, "CSRF Failed: CSRF token missing or incorrect.")
			return
		}
	}

	var userID string
	if ck, err := r.Cookie(SessionCookie); err == nil {
		userID = s.sessions[ck.Value]
	}
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "No user session. Call GET /api/user/me/ first.")
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "amount must be an integer")
		return
	}
	amount := int64(1)
	if raw, ok := body["amount"]; ok {
		f, isNum := raw.(float64)
		if !isNum || f != float64(int64(f)) {
			writeError(w, http.StatusBadRequest, "amount must be an integer")
			return
		}
		amount = int64(f)
	}
	if amount < 1 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	u, ok := s.users[userID]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	u.Points += amount
	writeJSON(w, http.StatusOK, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
