package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// handoffThreshold is the routing confidence above which the engine refuses
// to answer as the requested persona and suggests the detected one instead.
// Suggest, don't auto-switch: switching without consent is a worse failure
// than asking.  The value is policy, not configuration.
const handoffThreshold = 0.62

// QueryContext is the transient per-request input.  Nothing in it is
// persisted.
type QueryContext struct {
	Message            string
	RequestedPersonaID PersonaID
	Tier               pkg.Tier
	MemoryContext      string
}

// Result is the outcome of one engine invocation.  Persona identifies who
// answered; it is empty when the safety gate intercepted the message before
// persona resolution, and Intercepted is true only on that path.
type Result struct {
	Reply       string
	Persona     PersonaID
	Intercepted bool
}

// Engine is the top-level entry point: safety gate, persona resolution,
// retrieval, prompt assembly, generation, disclaimer.  Each call is an
// independent stateless invocation; the only shared state is the immutable
// corpus snapshot behind the holder.
type Engine struct {
	router    *Router
	ranker    *Ranker
	client    llm.Client
	log       *zap.Logger
	chatModel string
}

// NewEngine wires the engine from its collaborators.  The holder is shared
// with the router and ranker, so a corpus reload is visible to all three at
// the next request.
func NewEngine(holder *Holder, embedder llm.Embedder, client llm.Client, log *zap.Logger) *Engine {
	return &Engine{
		router: NewRouter(holder, embedder, log),
		ranker: NewRanker(holder, embedder, log),
		client: client,
		log:    log,
	}
}

// Ranker exposes the retrieval ranker for cap configuration.
func (e *Engine) Ranker() *Ranker { return e.ranker }

// SetChatModel installs an operator-level model override.  When non-empty it
// replaces every persona's default model on generation calls.
func (e *Engine) SetChatModel(model string) {
	e.chatModel = model
}

// GenerateResponse produces the reply for one inbound message.  Every
// non-error path returns a complete, disclaimer-bearing answer; the only
// error returned is a generation-service failure, which the caller owns.
func (e *Engine) GenerateResponse(ctx context.Context, q QueryContext) (Result, error) {
	// The safety gate runs before persona resolution, embedding, or
	// generation.  It must never be bypassable by persona selection.
	if rule, hit := MatchSafetyRule(q.Message); hit {
		e.log.Info("safety gate intercepted message",
			zap.String("rule", rule.Name),
			zap.String("family", string(rule.Family)))
		return Result{Reply: appendDisclaimer(SafetyResponse()), Intercepted: true}, nil
	}

	detected := e.router.DetectMascot(ctx, q.Message)

	active := q.RequestedPersonaID
	if active == "" {
		active = detected.Persona
		if active == "" {
			active = DefaultPersona
		}
	} else {
		// Unknown requested ids resolve to the default persona before the
		// hand-off comparison, matching the registry's total lookup.
		active = GetPersonaConfig(active).ID
		if detected.Persona != "" && detected.Persona != active && detected.Score > handoffThreshold {
			detectedCfg := GetPersonaConfig(detected.Persona)
			e.log.Info("hand-off suggested",
				zap.String("requested", string(active)),
				zap.String("detected", string(detected.Persona)),
				zap.Float64("score", detected.Score))
			return Result{Reply: appendDisclaimer(handoffSuggestion(detectedCfg)), Persona: active}, nil
		}
	}
	persona := GetPersonaConfig(active)

	entries := e.ranker.RelevantEntries(ctx, persona.ID, q.Message, q.Tier)
	if len(entries) == 0 {
		var suggestion *PersonaConfig
		if detected.Persona != "" && detected.Persona != persona.ID {
			cfg := GetPersonaConfig(detected.Persona)
			suggestion = &cfg
		}
		e.log.Info("no eligible knowledge for persona",
			zap.String("persona", string(persona.ID)),
			zap.String("tier", string(q.Tier)))
		return Result{Reply: appendDisclaimer(outOfLaneMessage(suggestion)), Persona: persona.ID}, nil
	}

	model := persona.Model
	if e.chatModel != "" {
		model = e.chatModel
	}
	prompt := buildPrompt(persona, q.MemoryContext, entries, q.Tier)
	reply, err := e.client.Generate(ctx, llm.GenerationRequest{
		SystemInstructions: prompt,
		UserText:           q.Message,
		Model:              model,
		Temperature:        persona.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generating response: %w", err)
	}
	return Result{Reply: appendDisclaimer(reply), Persona: persona.ID}, nil
}
