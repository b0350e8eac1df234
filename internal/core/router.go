package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
)

// RouteResult is the router's verdict: the best-fit persona and a confidence
// score.  An empty Persona means the router could not place the message
// (no keyword hit and the embedding backend was unavailable).
type RouteResult struct {
	Persona PersonaID
	Score   float64
}

// Router infers the best-fit persona for a message.  Stage one is the
// deterministic keyword table; stage two is a semantic vote over the
// knowledge corpus, reached only when no keyword matches.
type Router struct {
	holder   *Holder
	embedder llm.Embedder
	log      *zap.Logger
}

// NewRouter constructs a router over the given corpus holder and embedder.
func NewRouter(holder *Holder, embedder llm.Embedder, log *zap.Logger) *Router {
	return &Router{holder: holder, embedder: embedder, log: log}
}

// DetectMascot resolves the message to a persona.  A keyword hit returns
// score 1.0 and short-circuits the semantic stage, so the deterministic
// table always dominates the embedding vote.
func (r *Router) DetectMascot(ctx context.Context, message string) RouteResult {
	lower := strings.ToLower(message)
	for _, route := range keywordRoutes {
		for _, kw := range route.Keywords {
			if strings.Contains(lower, kw) {
				r.log.Debug("keyword route hit",
					zap.String("keyword", kw),
					zap.String("persona", string(route.Persona)))
				return RouteResult{Persona: route.Persona, Score: 1.0}
			}
		}
	}

	queryVec, err := r.embedder.Embed(ctx, message)
	if err != nil {
		r.log.Warn("semantic routing unavailable", zap.Error(err))
		return RouteResult{}
	}

	best := RouteResult{}
	for _, e := range r.holder.Snapshot().Entries() {
		if len(e.Embedding) == 0 {
			continue
		}
		if score := CosineSimilarity(queryVec, e.Embedding); score > best.Score {
			best = RouteResult{Persona: e.PersonaID, Score: score}
		}
	}
	if best.Persona != "" {
		r.log.Debug("semantic route vote",
			zap.String("persona", string(best.Persona)),
			zap.Float64("score", best.Score))
	}
	return best
}
