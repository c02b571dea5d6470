package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"markestedt/autom/autom"
	"markestedt/autom/config"
	"markestedt/autom/keyboard"
	"markestedt/autom/storage"
	"markestedt/autom/web"
)

// Agent serialises automation actions, journals them and serves the web API
type Agent struct {
	cfg  *config.Config
	auto *autom.Automator

	// mu is held for the whole of an action so gestures never interleave
	mu     sync.Mutex
	db     *storage.DB
	server *web.Server
}

// NewAgent creates a new agent instance
func NewAgent(cfg *config.Config, auto *autom.Automator) *Agent {
	return &Agent{cfg: cfg, auto: auto}
}

// Do runs fn as one action of the given kind and records the outcome
func (a *Agent) Do(kind string, detail any, fn func() (any, error)) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	result, err := fn()
	elapsed := time.Since(start)

	action := &storage.Action{
		Ref:        uuid.NewString(),
		Kind:       kind,
		Detail:     encodeDetail(detail),
		DurationMs: elapsed.Milliseconds(),
		Success:    err == nil,
		Timestamp:  start,
	}
	if err != nil {
		action.ErrorMessage = err.Error()
		slog.Warn("Action failed", "kind", kind, "error", err)
	} else {
		slog.Debug("Action done", "kind", kind, "duration", elapsed)
	}

	a.record(action)
	return result, err
}

// record journals and broadcasts an action; callers hold a.mu
func (a *Agent) record(action *storage.Action) {
	if a.db != nil {
		if err := a.db.SaveAction(action); err != nil {
			slog.Error("Failed to journal action", "kind", action.Kind, "error", err)
		}
	}
	if a.server != nil {
		a.server.BroadcastAction(action)
	}
}

func encodeDetail(detail any) string {
	if detail == nil {
		return "{}"
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(detail))
	}
	return string(data)
}

// Run opens the journal and serves the web API until ctx is cancelled
func (a *Agent) Run(ctx context.Context) error {
	if a.cfg.Storage.Enabled {
		dir := a.cfg.Storage.Dir
		if dir == "" {
			var err error
			if dir, err = config.Dir(); err != nil {
				return err
			}
		}
		db, err := storage.Open(dir)
		if err != nil {
			return fmt.Errorf("failed to open action journal: %w", err)
		}
		defer db.Close()

		a.mu.Lock()
		a.db = db
		a.mu.Unlock()
		slog.Info("Action journal opened", "dir", dir)
	}
	defer func() {
		a.mu.Lock()
		a.db, a.server = nil, nil
		a.mu.Unlock()
	}()

	slog.Info("autom started",
		"toggles", a.auto.ToggleStrategy().String(),
		"web", a.cfg.Web.Enabled,
		"journal", a.cfg.Storage.Enabled)

	if !a.cfg.Web.Enabled {
		<-ctx.Done()
		return nil
	}

	srv := web.NewServer(a.auto, a.db, a.cfg, a)
	defer srv.Close()

	handler, err := srv.Handler()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()
	srv.BroadcastStatus("running")

	httpServer := &http.Server{
		Addr:              a.cfg.Web.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting web server", "addr", httpServer.Addr, "url", a.WebURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		srv.BroadcastStatus("stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Web server shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	}
}

// WebURL is the dashboard address, or "" when the web server is disabled
func (a *Agent) WebURL() string {
	if !a.cfg.Web.Enabled {
		return ""
	}
	host := a.cfg.Web.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%d", host, a.cfg.Web.Port)
}

// ShowToggles shows the lock key state in a dialog
func (a *Agent) ShowToggles() error {
	toggles, err := a.auto.KeyboardToggles()
	if err != nil {
		return err
	}
	return a.auto.DialogText("Lock keys", "autom", formatToggles(toggles))
}

func formatToggles(t keyboard.Toggles) string {
	state := func(on bool) string {
		if on {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("Caps Lock: %s\nNum Lock: %s\nScroll Lock: %s",
		state(t.CapsLock), state(t.NumLock), state(t.ScrollLock))
}

// ToggleMute flips the system mute state as a journaled action
func (a *Agent) ToggleMute() error {
	_, err := a.Do("sound.mute", map[string]string{"source": "tray"}, func() (any, error) {
		muted, err := a.auto.SoundGetMute()
		if err != nil {
			return nil, err
		}
		if err := a.auto.SoundSetMute(!muted); err != nil {
			return nil, err
		}
		slog.Info("Mute toggled", "muted", !muted)
		return map[string]bool{"muted": !muted}, nil
	})
	return err
}
