// Package http is the chat-handling surface around the persona engine.
// It owns the concerns the engine deliberately does not: request timeouts,
// request correlation IDs, and the one propagated error (generation failure).
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/core"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// chatTimeout bounds one chat invocation end to end, covering the embedding
// call and the generation call.  On expiry the in-flight network call is
// aborted; the engine holds no resources that need release.
const chatTimeout = 45 * time.Second

// maxMessageLen mirrors the invocation contract's recommended message bound.
const maxMessageLen = 2000

// Server bundles the dependencies required by the HTTP handlers.  It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Engine *core.Engine
	Holder *core.Holder
	Log    *zap.Logger
}

// NewServer constructs a Server.
func NewServer(engine *core.Engine, holder *core.Holder, log *zap.Logger) *Server {
	return &Server{Engine: engine, Holder: holder, Log: log}
}

// ServeHTTP dispatches incoming requests based on the URL path.  Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/chat" && r.Method == http.MethodPost:
		s.handleChat(w, r)
	case r.URL.Path == "/api/personas" && r.Method == http.MethodGet:
		s.handlePersonas(w, r)
	case r.URL.Path == "/api/admin/reload" && r.Method == http.MethodPost:
		s.handleReload(w, r)
	case r.URL.Path == "/healthz" && r.Method == http.MethodGet:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	default:
		http.NotFound(w, r)
	}
}

// handleChat runs one engine invocation.  Every non-generation-failure path
// answers 200 with a disclaimer-bearing reply; only a true downstream
// failure surfaces as 502.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.Log.With(zap.String("request_id", requestID))

	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if len(req.Message) > maxMessageLen {
		http.Error(w, "message too long", http.StatusBadRequest)
		return
	}
	if req.Tier == "" {
		req.Tier = pkg.TierFree
	}
	if !req.Tier.Valid() {
		http.Error(w, "tier must be 'free' or 'premium'", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	res, err := s.Engine.GenerateResponse(ctx, core.QueryContext{
		Message:            req.Message,
		RequestedPersonaID: core.PersonaID(req.MascotID),
		Tier:               req.Tier,
		MemoryContext:      req.MemoryContext,
	})
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		log.Error("chat generation failed", zap.Error(err))
		http.Error(w, "generation service unavailable", status)
		return
	}

	log.Info("chat served",
		zap.String("tier", string(req.Tier)),
		zap.String("persona", string(res.Persona)),
		zap.Bool("intercepted", res.Intercepted),
		zap.Int("reply_len", len(res.Reply)))
	writeJSON(w, pkg.ChatResponse{
		Reply:       res.Reply,
		PersonaID:   string(res.Persona),
		Intercepted: res.Intercepted,
	})
}

// handlePersonas returns the persona catalog for pickers.
func (s *Server) handlePersonas(w http.ResponseWriter, _ *http.Request) {
	personas := core.AllPersonas()
	out := make([]pkg.PersonaInfo, 0, len(personas))
	for _, p := range personas {
		out = append(out, pkg.PersonaInfo{ID: string(p.ID), DisplayName: p.DisplayName})
	}
	writeJSON(w, out)
}

// handleReload swaps in a fresh corpus snapshot.  On failure the previous
// snapshot stays live and the operator gets a 500.
func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	n, err := s.Holder.Reload()
	if err != nil {
		s.Log.Error("corpus reload failed", zap.Error(err))
		http.Error(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, pkg.ReloadResponse{Entries: n})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
