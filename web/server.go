// Package web serves the local JSON control API, the action feed websocket
// and the dashboard.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/autom/autom"
	"markestedt/autom/config"
	"markestedt/autom/storage"
)

//go:embed static/*
var staticFiles embed.FS

// upgrader keeps gorilla's default origin check: a browser page may only
// open the feed from the dashboard's own origin
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dispatcher runs an automation action on behalf of a request. kind and
// detail describe the action for the journal; fn performs it.
type Dispatcher interface {
	Do(kind string, detail any, fn func() (any, error)) (any, error)
}

type directDispatcher struct{}

func (directDispatcher) Do(_ string, _ any, fn func() (any, error)) (any, error) {
	return fn()
}

// Server represents the web server
type Server struct {
	auto     *autom.Automator
	db       *storage.DB
	config   *config.Config
	dispatch Dispatcher
	hub      *Hub
	status   string
	mu       sync.RWMutex
}

// NewServer creates a new web server. db may be nil when the journal is
// disabled; a nil dispatch runs actions directly.
func NewServer(auto *autom.Automator, db *storage.DB, cfg *config.Config, dispatch Dispatcher) *Server {
	if dispatch == nil {
		dispatch = directDispatcher{}
	}

	hub := NewHub()
	go hub.Run()

	return &Server{
		auto:     auto,
		db:       db,
		config:   cfg,
		dispatch: dispatch,
		hub:      hub,
	}
}

// Handler returns the routes of the API, websocket and dashboard
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// Keyboard
	mux.HandleFunc("/api/keyboard/press", s.handleKeyboardPress)
	mux.HandleFunc("/api/keyboard/down", s.handleKeyboardDown)
	mux.HandleFunc("/api/keyboard/up", s.handleKeyboardUp)
	mux.HandleFunc("/api/keyboard/type", s.handleKeyboardType)
	mux.HandleFunc("/api/keyboard/toggles", s.handleKeyboardToggles)
	mux.HandleFunc("/api/keyboard/keys", s.handleKeyboardKeys)

	// Mouse
	mux.HandleFunc("/api/mouse/position", s.handleMousePosition)
	mux.HandleFunc("/api/mouse/click", s.handleMouseClick)
	mux.HandleFunc("/api/mouse/down", s.handleMouseDown)
	mux.HandleFunc("/api/mouse/up", s.handleMouseUp)
	mux.HandleFunc("/api/mouse/scroll", s.handleMouseScroll)

	// Sound
	mux.HandleFunc("/api/sound/volume", s.handleSoundVolume)
	mux.HandleFunc("/api/sound/mute", s.handleSoundMute)
	mux.HandleFunc("/api/sound/devices", s.handleSoundDevices)

	mux.HandleFunc("/api/download", s.handleDownload)

	// Journal
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return guard(mux), nil
}

// guard rejects requests a page on another site could forge. Browsers send
// Origin on cross-origin requests, and a cross-site POST can only carry a
// JSON body after a CORS preflight this server never grants.
func guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sameOrigin(r) {
			slog.Warn("Rejected cross-origin request", "origin", r.Header.Get("Origin"), "path", r.URL.Path)
			http.Error(w, "Cross-origin request rejected", http.StatusForbidden)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") &&
			(r.Method == http.MethodPost || r.Method == http.MethodPut) && !isJSON(r) {
			http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sameOrigin reports whether r carries no Origin (a non-browser client) or
// one naming this server
func sameOrigin(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
		return false
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// Close disconnects websocket clients
func (s *Server) Close() {
	s.hub.Stop()
}

// GetConfig returns the current configuration (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig updates the configuration (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// BroadcastStatus records the agent status and broadcasts it to all
// connected clients. Clients that connect later receive it on connect.
func (s *Server) BroadcastStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	s.hub.BroadcastMessage(statusMessage(status))
}

func statusMessage(status string) Message {
	return Message{
		Type: MessageTypeStatus,
		Data: StatusMessage{Status: status},
	}
}

// BroadcastAction broadcasts a journaled action to all connected clients
func (s *Server) BroadcastAction(a *storage.Action) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeAction,
		Data: ActionMessage{
			Ref:        a.Ref,
			Kind:       a.Kind,
			DurationMs: a.DurationMs,
			Success:    a.Success,
			Error:      a.ErrorMessage,
			Timestamp:  a.Timestamp.UTC().Format(time.RFC3339),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()
	if status != "" {
		if data, err := json.Marshal(statusMessage(status)); err == nil {
			client.send <- data
		}
	}

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}
