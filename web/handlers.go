package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"markestedt/autom/config"
	"markestedt/autom/keyboard"
	"markestedt/autom/mouse"
	"markestedt/autom/sound"
	"markestedt/autom/storage"
)

var errBadRequest = errors.New("bad request")

// maxScrollClicks bounds one scroll request; the action lock is held for
// every notch
const maxScrollClicks = 100

// statusFor maps an automation error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, keyboard.ErrInvalidKey),
		errors.Is(err, mouse.ErrInvalidButton),
		errors.Is(err, mouse.ErrInvalidDuration),
		errors.Is(err, sound.ErrInvalidVolume):
		return http.StatusBadRequest
	case errors.Is(err, keyboard.ErrNoToggleQueryMechanism),
		errors.Is(err, sound.ErrNoMixerMechanism):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// millis converts an optional millisecond field, using def when unset
func millis(ms *int, def time.Duration) (time.Duration, error) {
	if ms == nil {
		return def, nil
	}
	if *ms < 0 {
		return 0, fmt.Errorf("%w: negative duration %dms", errBadRequest, *ms)
	}
	return time.Duration(*ms) * time.Millisecond, nil
}

// act runs fn through the dispatcher and writes its result
func (s *Server) act(w http.ResponseWriter, kind string, detail any, fn func() (any, error)) {
	result, err := s.dispatch.Do(kind, detail, fn)
	if err != nil {
		writeError(w, err)
		return
	}
	if result == nil {
		result = map[string]string{"status": "success"}
	}
	writeJSON(w, http.StatusOK, result)
}

// keysRequest names keys either as a list or as a combo like "ctrl+shift+v"
type keysRequest struct {
	Keys       []string `json:"keys,omitempty"`
	Combo      string   `json:"combo,omitempty"`
	DelayMs    *int     `json:"delay_ms,omitempty"`
	DurationMs *int     `json:"duration_ms,omitempty"`
}

func (r *keysRequest) resolve() error {
	if r.Combo == "" {
		return nil
	}
	if len(r.Keys) > 0 {
		return fmt.Errorf("%w: keys and combo are mutually exclusive", errBadRequest)
	}
	keys, err := config.ParseCombo(r.Combo)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	r.Keys = keys
	return nil
}

func (s *Server) handleKeyboardPress(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req keysRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.resolve(); err != nil {
		writeError(w, err)
		return
	}
	delay, err := millis(req.DelayMs, s.GetConfig().Keyboard.Delay())
	if err != nil {
		writeError(w, err)
		return
	}
	hold, err := millis(req.DurationMs, s.GetConfig().Keyboard.Duration())
	if err != nil {
		writeError(w, err)
		return
	}

	s.act(w, "keyboard.press", req, func() (any, error) {
		return nil, s.auto.KeyboardPress(req.Keys, delay, hold)
	})
}

func (s *Server) handleKeyboardDown(w http.ResponseWriter, r *http.Request) {
	s.handleKeyboardHold(w, r, "keyboard.down", s.auto.KeyboardDown)
}

func (s *Server) handleKeyboardUp(w http.ResponseWriter, r *http.Request) {
	s.handleKeyboardHold(w, r, "keyboard.up", s.auto.KeyboardUp)
}

func (s *Server) handleKeyboardHold(w http.ResponseWriter, r *http.Request, kind string, fn func([]string, time.Duration) error) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req keysRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.resolve(); err != nil {
		writeError(w, err)
		return
	}
	delay, err := millis(req.DelayMs, s.GetConfig().Keyboard.Delay())
	if err != nil {
		writeError(w, err)
		return
	}

	s.act(w, kind, req, func() (any, error) {
		return nil, fn(req.Keys, delay)
	})
}

func (s *Server) handleKeyboardType(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text       string `json:"text"`
		DelayMs    *int   `json:"delay_ms,omitempty"`
		DurationMs *int   `json:"duration_ms,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	delay, err := millis(req.DelayMs, s.GetConfig().Keyboard.Delay())
	if err != nil {
		writeError(w, err)
		return
	}
	hold, err := millis(req.DurationMs, s.GetConfig().Keyboard.Duration())
	if err != nil {
		writeError(w, err)
		return
	}

	// journal the length only, typed text may be a password
	detail := map[string]int{"length": len([]rune(req.Text))}
	s.act(w, "keyboard.type", detail, func() (any, error) {
		return nil, s.auto.KeyboardType(req.Text, delay, hold)
	})
}

func (s *Server) handleKeyboardToggles(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	toggles, err := s.auto.KeyboardToggles()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategy": s.auto.ToggleStrategy().String(),
		"toggles":  toggles,
	})
}

func (s *Server) handleKeyboardKeys(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keys": s.auto.KeyboardKeys()})
}

func (s *Server) handleMousePosition(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.auto.MouseGetPosition())
	case http.MethodPost:
		var req struct {
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
			Relative bool    `json:"relative"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		s.act(w, "mouse.move", req, func() (any, error) {
			s.auto.MouseSetPosition(req.X, req.Y, req.Relative)
			return s.auto.MouseGetPosition(), nil
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type buttonRequest struct {
	X          *int   `json:"x,omitempty"`
	Y          *int   `json:"y,omitempty"`
	Button     string `json:"button"`
	DurationMs *int   `json:"duration_ms,omitempty"`
}

func (b buttonRequest) target() mouse.Target {
	var t mouse.Target
	if b.X != nil {
		t.X, t.HasX = *b.X, true
	}
	if b.Y != nil {
		t.Y, t.HasY = *b.Y, true
	}
	return t
}

func (b buttonRequest) button() string {
	if b.Button == "" {
		return "left"
	}
	return b.Button
}

func (s *Server) handleMouseClick(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req buttonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	hold, err := millis(req.DurationMs, s.GetConfig().Mouse.Click())
	if err != nil {
		writeError(w, err)
		return
	}

	s.act(w, "mouse.click", req, func() (any, error) {
		return nil, s.auto.MouseClick(req.target(), req.button(), hold)
	})
}

func (s *Server) handleMouseDown(w http.ResponseWriter, r *http.Request) {
	s.handleMouseButton(w, r, "mouse.down", s.auto.MouseDown)
}

func (s *Server) handleMouseUp(w http.ResponseWriter, r *http.Request) {
	s.handleMouseButton(w, r, "mouse.up", s.auto.MouseUp)
}

func (s *Server) handleMouseButton(w http.ResponseWriter, r *http.Request, kind string, fn func(mouse.Target, string) error) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req buttonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.act(w, kind, req, func() (any, error) {
		return nil, fn(req.target(), req.button())
	})
}

func (s *Server) handleMouseScroll(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Direction string `json:"direction"`
		Clicks    *int   `json:"clicks,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	clicks := 1
	if req.Clicks != nil {
		clicks = *req.Clicks
	}
	if clicks < 0 || clicks > maxScrollClicks {
		writeError(w, fmt.Errorf("%w: clicks must be between 0 and %d, got %d", errBadRequest, maxScrollClicks, clicks))
		return
	}

	s.act(w, "mouse.scroll", req, func() (any, error) {
		return nil, s.auto.MouseScroll(req.Direction, clicks)
	})
}

func (s *Server) handleSoundVolume(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		level, err := s.auto.SoundGetVolume()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"volume": level})
	case http.MethodPut:
		var req struct {
			Volume   int  `json:"volume"`
			Relative bool `json:"relative"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		s.act(w, "sound.volume", req, func() (any, error) {
			if req.Relative {
				return nil, s.auto.SoundAdjustVolume(req.Volume)
			}
			return nil, s.auto.SoundSetVolume(req.Volume, false)
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSoundMute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		muted, err := s.auto.SoundGetMute()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"muted": muted})
	case http.MethodPut:
		var req struct {
			Muted bool `json:"muted"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		s.act(w, "sound.mute", req, func() (any, error) {
			return nil, s.auto.SoundSetMute(req.Muted)
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSoundDevices(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	devices, err := s.auto.SoundDevices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.URL == "" || req.Path == "" {
		writeError(w, fmt.Errorf("%w: url and path are required", errBadRequest))
		return
	}

	s.act(w, "web.download", req, func() (any, error) {
		if err := s.auto.WebDownloadFile(r.Context(), req.URL, req.Path); err != nil {
			return nil, err
		}
		return map[string]string{"status": "success", "path": req.Path}, nil
	})
}

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handlePutConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetConfig returns the current configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.GetConfig()

	view := struct {
		LogLevel       string `json:"logLevel"`
		KeyDelayMs     int    `json:"keyDelayMs"`
		KeyDurationMs  int    `json:"keyDurationMs"`
		ClickMs        int    `json:"clickMs"`
		ToggleTool     string `json:"toggleTool"`
		ToggleStrategy string `json:"toggleStrategy"`
		SoundTool      string `json:"soundTool"`
		SoundDevice    string `json:"soundDevice"`
		SoundControl   string `json:"soundControl"`
		WebPort        int    `json:"webPort"`
		StorageEnabled bool   `json:"storageEnabled"`
		TrayEnabled    bool   `json:"trayEnabled"`
	}{
		LogLevel:       cfg.Log.Level,
		KeyDelayMs:     cfg.Keyboard.DelayMs,
		KeyDurationMs:  cfg.Keyboard.DurationMs,
		ClickMs:        cfg.Mouse.ClickMs,
		ToggleTool:     cfg.Toggles.Tool,
		ToggleStrategy: s.auto.ToggleStrategy().String(),
		SoundTool:      cfg.Sound.Tool,
		SoundDevice:    cfg.Sound.Device,
		SoundControl:   cfg.Sound.Control,
		WebPort:        cfg.Web.Port,
		StorageEnabled: s.db != nil,
		TrayEnabled:    cfg.Tray.Enabled,
	}

	writeJSON(w, http.StatusOK, view)
}

// handlePutConfig updates the default timings. Changes are saved to the config file before they take effect.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		KeyDelayMs    *int    `json:"keyDelayMs"`
		KeyDurationMs *int    `json:"keyDurationMs"`
		ClickMs       *int    `json:"clickMs"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Work on a copy so a rejected update leaves the live config untouched
	cfg := *s.GetConfig()

	if req.KeyDelayMs != nil {
		cfg.Keyboard.DelayMs = *req.KeyDelayMs
	}
	if req.KeyDurationMs != nil {
		cfg.Keyboard.DurationMs = *req.KeyDurationMs
	}
	if req.ClickMs != nil {
		cfg.Mouse.ClickMs = *req.ClickMs
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	// Save to file
	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	// Update in-memory config
	s.UpdateConfig(&cfg)
	slog.Info("Configuration updated", "path", cfg.Path())

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) journalAvailable(w http.ResponseWriter) bool {
	if s.db == nil {
		http.Error(w, "Action journal is disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !s.journalAvailable(w) {
		return
	}

	daysStr := r.URL.Query().Get("days")
	days := 7 // default to 7 days
	if daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	kinds, err := s.db.GetKindStats(days)
	if err != nil {
		slog.Error("Failed to get kind stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"overall": overall,
		"daily":   daily,
		"kinds":   kinds,
	})
}

// handleHistory handles GET and DELETE requests for the action journal
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.journalAvailable(w) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated actions, optionally of one kind
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 50 // default
	offset := 0

	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(query.Get("offset")); err == nil && o >= 0 {
		offset = o
	}
	kind := query.Get("kind")

	actions, err := s.db.GetActions(kind, limit, offset)
	if err != nil {
		slog.Error("Failed to get actions", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	if actions == nil {
		actions = []storage.Action{}
	}

	total, err := s.db.GetActionCount(kind)
	if err != nil {
		slog.Error("Failed to get action count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions": actions,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleDeleteHistory clears the journal
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	n, err := s.db.DeleteActions()
	if err != nil {
		slog.Error("Failed to delete actions", "error", err)
		http.Error(w, "Failed to delete history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "deleted": n})
}
