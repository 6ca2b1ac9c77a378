// Package api provides the HTTP API for observing the world. All
// endpoints are GET and read-only; the simulation is not steerable from
// outside.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/engine"
	"github.com/talgya/living-world/internal/persistence"
)

// Server serves the world state over HTTP.
type Server struct {
	Eng  *engine.Engine
	DB   *persistence.DB
	Port int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/agent/", s.handleAgentRoutes)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/gifts", s.handleGifts)
	mux.HandleFunc("/api/v1/partnerships", s.handlePartnerships)
	mux.HandleFunc("/api/v1/buildings", s.handleBuildings)
	mux.HandleFunc("/api/v1/legacies", s.handleLegacies)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// snapshot marshals whatever build returns while the tick loop is held
// off, so handlers never encode state a tick is mutating. A nil return
// from build means not found.
func (s *Server) snapshot(build func(*engine.World) any) ([]byte, bool) {
	var body []byte
	var err error
	found := true
	s.Eng.View(func(w *engine.World) {
		v := build(w)
		if v == nil {
			found = false
			return
		}
		body, err = json.Marshal(v)
	})
	if err != nil {
		slog.Error("encode response", "error", err)
		return nil, found
	}
	return body, found
}

func writeBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any { return wd.Report() })
	writeBody(w, body)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any {
		reports := make([]engine.AgentReport, 0, len(wd.Agents))
		for _, a := range wd.Agents {
			if rep, ok := wd.ReportAgent(a.ID); ok {
				reports = append(reports, rep)
			}
		}
		return reports
	})
	writeBody(w, body)
}

// handleAgentRoutes serves /api/v1/agent/{id} and /api/v1/agent/{id}/story.
func (s *Server) handleAgentRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/agent/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}
	agentID := agents.AgentID(id)

	var body []byte
	var ok bool
	switch {
	case len(parts) > 1 && parts[1] == "story":
		body, ok = s.snapshot(func(wd *engine.World) any {
			story, found := wd.Story(agentID)
			if !found {
				return nil
			}
			return story
		})
	case len(parts) > 1 && parts[1] == "chronicle":
		body, ok = s.snapshot(func(wd *engine.World) any {
			a := wd.Agent(agentID)
			if a == nil {
				return nil
			}
			return a.Chronicle.Events
		})
	default:
		body, ok = s.snapshot(func(wd *engine.World) any {
			rep, found := wd.ReportAgent(agentID)
			if !found {
				return nil
			}
			return rep
		})
	}
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeBody(w, body)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	body, _ := s.snapshot(func(wd *engine.World) any {
		events := wd.Events
		if len(events) > limit {
			events = events[len(events)-limit:]
		}
		return events
	})
	writeBody(w, body)
}

func (s *Server) handleGifts(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any {
		return map[string]any{
			"gifts":      wd.Economy.Gifts,
			"requests":   wd.Economy.Open(),
			"reputation": wd.Economy.Reputations(),
		}
	})
	writeBody(w, body)
}

func (s *Server) handlePartnerships(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any { return wd.Partnerships.Partnerships })
	writeBody(w, body)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any {
		return map[string]any{
			"standing":    wd.Buildings.Standing(),
			"in_progress": wd.Buildings.InProgress(),
			"ruins":       wd.Buildings.Ruins,
		}
	})
	writeBody(w, body)
}

func (s *Server) handleLegacies(w http.ResponseWriter, r *http.Request) {
	body, _ := s.snapshot(func(wd *engine.World) any { return wd.Legacies })
	writeBody(w, body)
}
