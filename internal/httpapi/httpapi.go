// Package httpapi is a small read-only dashboard over the in-flight
// session Store: current object count, per-category counts, and a
// per-object lookup, built with github.com/gorilla/mux for routing plus a
// github.com/gorilla/websocket feed that pushes each just-enriched
// track.Object as JSON. It never mutates the Store and never blocks the
// engine: Broadcast is buffered and drops updates for slow clients rather
// than stalling the parse loop.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"
)

// Server exposes a read-only view of a Store over HTTP and a websocket
// feed of newly enriched objects.
type Server struct {
	store    *store.Store
	router   *mux.Router
	upgrader websocket.Upgrader
	log      *logrus.Entry

	mu      sync.Mutex
	clients map[*websocket.Conn]chan *track.Object
}

// NewServer builds a Server backed by st. The Store is read but never
// written by this package.
func NewServer(st *store.Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		store:    st,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log.WithField("component", "httpapi"),
		clients:  make(map[*websocket.Conn]chan *track.Object),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/objects", s.handleListObjects).Methods("GET")
	api.HandleFunc("/objects/{tac_id}", s.handleGetObject).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP lets Server itself be passed to http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Values())
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	tacID, err := strconv.ParseInt(mux.Vars(r)["tac_id"], 16, 64)
	if err != nil {
		http.Error(w, "tac_id must be hexadecimal", http.StatusBadRequest)
		return
	}
	obj := s.store.Get(tacID)
	if obj == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, obj)
}

// statsResponse summarizes the live Store for the dashboard's header bar.
type statsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	objs := s.store.Values()
	resp := statsResponse{Total: len(objs), ByCategory: make(map[string]int)}
	for _, o := range objs {
		resp.ByCategory[o.Category.String()]++
	}
	writeJSON(w, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	feed := make(chan *track.Object, 32)
	s.mu.Lock()
	s.clients[conn] = feed
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for obj := range feed {
		if err := conn.WriteJSON(obj); err != nil {
			return
		}
	}
}

// Broadcast pushes obj to every connected websocket client. Slow or absent
// clients never block the caller: a full client buffer drops the update
// for that client rather than stalling the parse loop.
func (s *Server) Broadcast(obj *track.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, feed := range s.clients {
		select {
		case feed <- obj:
		default:
		}
	}
}

// ListenAndServe starts the HTTP server on addr. Blocks until the server
// stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("starting dashboard")
	if err := http.ListenAndServe(addr, s); err != nil {
		return fmt.Errorf("httpapi listen on %s: %w", addr, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
