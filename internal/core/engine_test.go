package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// engineCorpus gives beau-tox and harmony each one free entry with an
// embedding, so both routing votes and retrieval have material to work with.
func engineCorpus() []KnowledgeEntry {
	return []KnowledgeEntry{
		{
			ID: "bt-1", PersonaID: PersonaBeauTox, Tier: pkg.TierFree,
			Title: "How neuromodulators work", Summary: "nerve signal basics", Body: "muscle relaxation",
			Embedding: []float32{0, 1, 0},
		},
		{
			ID: "hm-1", PersonaID: PersonaHarmony, Tier: pkg.TierFree,
			Title: "Hormone basics", Summary: "chemical messengers", Body: "glands and signals",
			Embedding: []float32{1, 1, 0},
		},
	}
}

func newTestEngine(entries []KnowledgeEntry, embedder llm.Embedder, client *fakeClient) *Engine {
	return NewEngine(NewStaticHolder(NewLibrary(entries)), embedder, client, zap.NewNop())
}

func TestGenerateResponseSafetyInterception(t *testing.T) {
	embedder := &fakeEmbedder{def: []float32{1, 0, 0}}
	client := &fakeClient{reply: "should never be used"}
	e := newTestEngine(engineCorpus(), embedder, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "How many units of Botox do I need?",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Equal(t, appendDisclaimer(SafetyResponse()), res.Reply)
	assert.True(t, res.Intercepted)
	assert.Empty(t, res.Persona, "interception happens before persona resolution")
	assert.Zero(t, embedder.calls, "safety path must not embed")
	assert.Zero(t, client.calls, "safety path must not generate")
	assert.Equal(t, 1, strings.Count(res.Reply, disclaimerSeparator))
}

func TestGenerateResponseKeywordRoutedReply(t *testing.T) {
	client := &fakeClient{reply: "Neuromodulators relax the treated muscle."}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Is Botox reversible?",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)
	assert.Equal(t, "gpt-4o-mini", client.lastReq.Model)
	assert.Equal(t, "Is Botox reversible?", client.lastReq.UserText)
	assert.Equal(t, PersonaBeauTox, res.Persona)
	assert.False(t, res.Intercepted)
	assert.True(t, strings.HasSuffix(res.Reply, disclaimerSeparator+disclaimerText))
	assert.Equal(t, 1, strings.Count(res.Reply, disclaimerSeparator))
}

func TestGenerateResponseChatModelOverride(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)
	e.SetChatModel("gpt-4.1")

	_, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Is Botox reversible?",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)
	assert.Equal(t, "gpt-4.1", client.lastReq.Model)
}

func TestGenerateResponseHandoffSuggestion(t *testing.T) {
	// No keyword match; the semantic vote lands on harmony with
	// cos([1,0,0],[1,1,0]) ≈ 0.707 > 0.62 while beau-tox was requested.
	embedder := &fakeEmbedder{def: []float32{1, 0, 0}}
	client := &fakeClient{reply: "should never be used"}
	e := newTestEngine(engineCorpus(), embedder, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:            "my cycles changed and I sleep badly",
		RequestedPersonaID: PersonaBeauTox,
		Tier:               pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Harmony")
	assert.Equal(t, PersonaBeauTox, res.Persona, "the requested persona speaks the hand-off")
	assert.False(t, res.Intercepted)
	assert.True(t, strings.HasSuffix(res.Reply, disclaimerSeparator+disclaimerText))
	assert.Zero(t, client.calls, "hand-off must not call generation")
}

func TestGenerateResponseNoHandoffBelowThreshold(t *testing.T) {
	// cos([1,0,0],[1,1,1]) ≈ 0.577 < 0.62: answer as the requested persona.
	entries := []KnowledgeEntry{
		{
			ID: "bt-1", PersonaID: PersonaBeauTox, Tier: pkg.TierFree,
			Title: "T", Summary: "S", Body: "B", Embedding: []float32{0, 1, 0},
		},
		{
			ID: "hm-1", PersonaID: PersonaHarmony, Tier: pkg.TierFree,
			Title: "T", Summary: "S", Body: "B", Embedding: []float32{1, 1, 1},
		},
	}
	client := &fakeClient{reply: "answering as requested"}
	e := newTestEngine(entries, &fakeEmbedder{def: []float32{1, 0, 0}}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:            "my cycles changed and I sleep badly",
		RequestedPersonaID: PersonaBeauTox,
		Tier:               pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, PersonaBeauTox, res.Persona)
	assert.Contains(t, res.Reply, "answering as requested")
}

func TestGenerateResponseMatchingRequestAndDetection(t *testing.T) {
	client := &fakeClient{reply: "no hand-off needed"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:            "Tell me about Botox",
		RequestedPersonaID: PersonaBeauTox,
		Tier:               pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, PersonaBeauTox, res.Persona)
}

func TestGenerateResponseOutOfLane(t *testing.T) {
	// Pearly has no entries at all, so retrieval is empty.
	client := &fakeClient{reply: "should never be used"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0.1, 0.1, 0}}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:            "Tell me about teeth whitening",
		RequestedPersonaID: PersonaPearly,
		Tier:               pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "outside my lane")
	assert.Equal(t, PersonaPearly, res.Persona)
	assert.False(t, res.Intercepted)
	assert.True(t, strings.HasSuffix(res.Reply, disclaimerSeparator+disclaimerText))
	assert.Zero(t, client.calls)
}

func TestGenerateResponsePromptSectionOrder(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	_, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:       "Tell me about Botox",
		Tier:          pkg.TierPremium,
		MemoryContext: "User asked about foreheads yesterday.",
	})
	require.NoError(t, err)

	sys := client.lastReq.SystemInstructions
	idxInstr := strings.Index(sys, "Beau Tox")
	idxMemory := strings.Index(sys, "MEMORY:")
	idxLibrary := strings.Index(sys, "LIBRARY CONTEXT:")
	idxRules := strings.Index(sys, "RESPONSE RULES:")
	require.NotEqual(t, -1, idxInstr)
	require.NotEqual(t, -1, idxMemory)
	require.NotEqual(t, -1, idxLibrary)
	require.NotEqual(t, -1, idxRules)
	assert.Less(t, idxInstr, idxMemory)
	assert.Less(t, idxMemory, idxLibrary)
	assert.Less(t, idxLibrary, idxRules)

	assert.Contains(t, sys, "How neuromodulators work")
	assert.Contains(t, sys, premiumStyleRule)
	assert.NotContains(t, sys, freeStyleRule)
}

func TestGenerateResponseFreeTierStyleRule(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	_, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Tell me about Botox",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.SystemInstructions, freeStyleRule)
	assert.NotContains(t, client.lastReq.SystemInstructions, "MEMORY:")
}

func TestGenerateResponseDisclaimerIdempotent(t *testing.T) {
	reply := "Already disclaimed." + disclaimerSeparator + "custom notice"
	client := &fakeClient{reply: reply}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Tell me about Botox",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Equal(t, reply, res.Reply, "generated text carrying the separator is returned unchanged")
	assert.Equal(t, 1, strings.Count(res.Reply, disclaimerSeparator))
}

func TestGenerateResponseGenerationFailurePropagates(t *testing.T) {
	genErr := errors.New("upstream 500")
	client := &fakeClient{err: genErr}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{def: []float32{0, 1, 0}}, client)

	_, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Tell me about Botox",
		Tier:    pkg.TierFree,
	})
	assert.ErrorIs(t, err, genErr)
}

func TestGenerateResponseUnknownRequestedPersonaFallsBack(t *testing.T) {
	// Unknown requested ids resolve to the default persona, which has no
	// entries in this corpus, so the reply is the out-of-lane message
	// rather than an error.
	client := &fakeClient{reply: "should never be used"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{err: llm.ErrUnavailable}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message:            "a question with no route keywords",
		RequestedPersonaID: "dr-nobody",
		Tier:               pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "outside my lane")
	assert.Equal(t, DefaultPersona, res.Persona)
	assert.Zero(t, client.calls)
}

func TestGenerateResponseDegradedEmbedderStillAnswers(t *testing.T) {
	client := &fakeClient{reply: "grounded but unranked"}
	e := newTestEngine(engineCorpus(), &fakeEmbedder{err: llm.ErrUnavailable}, client)

	res, err := e.GenerateResponse(context.Background(), QueryContext{
		Message: "Tell me about Botox",
		Tier:    pkg.TierFree,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "grounded but unranked")
	assert.Equal(t, 1, client.calls)
}
