package plan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/time/rate"

	"github.com/kilianp07/planfit/core/model"
	coreplan "github.com/kilianp07/planfit/core/plan"
	"github.com/kilianp07/planfit/core/planner"
)

// Config defines the plan API settings.
type Config struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	// Token guards all endpoints when non-empty ("Authorization: Bearer <token>").
	Token string `json:"token"`
	// RateLimit caps requests per second; Burst allows short spikes.
	RateLimit float64 `json:"rate_limit"`
	Burst     int     `json:"burst"`
}

// SetDefaults applies the listen address and rate limits.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}
	if c.Burst == 0 {
		c.Burst = 20
	}
}

// NewHandler exposes the planner over JSON HTTP. Read endpoints return
// the most recent pass; mutation endpoints trigger a full reschedule via
// the planner and return the item that was stored.
func NewHandler(p *planner.Planner, cfg Config) http.Handler {
	cfg.SetDefaults()
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/plan", func(w http.ResponseWriter, r *http.Request) {
		res := p.Result()
		// Placements come out in processing order; the API serves a
		// chronological copy for display.
		placements := append([]coreplan.Placement(nil), res.Placements...)
		sort.Slice(placements, func(i, j int) bool { return placements[i].Start.Before(placements[j].Start) })
		writeJSON(w, http.StatusOK, map[string]any{
			"placements": placements,
			"intervals":  res.Generated,
		})
	})
	mux.HandleFunc("GET /api/plan/unscheduled", func(w http.ResponseWriter, r *http.Request) {
		res := p.Result()
		if res.Unscheduled == nil {
			res.Unscheduled = []model.Task{}
		}
		writeJSON(w, http.StatusOK, res.Unscheduled)
	})
	mux.HandleFunc("GET /api/plan/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, p.Stats())
	})
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		var t model.Task
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, fmt.Sprintf("decode task: %v", err), http.StatusBadRequest)
			return
		}
		stored, err := p.AddTask(t)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	})
	mux.HandleFunc("DELETE /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !p.RemoveTask(r.PathValue("id")) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/intervals", func(w http.ResponseWriter, r *http.Request) {
		var iv model.Interval
		if err := json.NewDecoder(r.Body).Decode(&iv); err != nil {
			http.Error(w, fmt.Sprintf("decode interval: %v", err), http.StatusBadRequest)
			return
		}
		stored, err := p.AddInterval(iv)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	})
	mux.HandleFunc("DELETE /api/intervals/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !p.RemoveInterval(r.PathValue("id")) {
			http.Error(w, "interval not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /api/settings", func(w http.ResponseWriter, r *http.Request) {
		var st model.Settings
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			http.Error(w, fmt.Sprintf("decode settings: %v", err), http.StatusBadRequest)
			return
		}
		if err := p.UpdateSettings(st); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.Token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+cfg.Token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if !limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
