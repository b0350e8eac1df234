package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/core"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

type stubEmbedder struct{ vec []float32 }

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	if s.vec == nil {
		return nil, llm.ErrUnavailable
	}
	return s.vec, nil
}

type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Generate(context.Context, llm.GenerationRequest) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	entries := []core.KnowledgeEntry{
		{ID: "bt-1", PersonaID: core.PersonaBeauTox, Tier: pkg.TierFree,
			Title: "T", Summary: "S", Body: "B"},
	}
	holder := core.NewStaticHolder(core.NewLibrary(entries))
	engine := core.NewEngine(holder, &stubEmbedder{}, client, zap.NewNop())
	return NewServer(engine, holder, zap.NewNop())
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t, &stubClient{reply: "Here is how it works."})

	w := postChat(t, srv, `{"message": "Tell me about Botox", "tier": "free"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pkg.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "Here is how it works.")
	assert.Contains(t, resp.Reply, "\n\n---\n", "reply must carry the disclaimer block")
	assert.Equal(t, string(core.PersonaBeauTox), resp.PersonaID)
	assert.False(t, resp.Intercepted)
}

func TestHandleChatValidation(t *testing.T) {
	srv := newTestServer(t, &stubClient{reply: "ok"})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing message", `{"tier": "free"}`, http.StatusBadRequest},
		{"blank message", `{"message": "   "}`, http.StatusBadRequest},
		{"bad tier", `{"message": "hi", "tier": "gold"}`, http.StatusBadRequest},
		{"too long", `{"message": "` + strings.Repeat("a", 2001) + `"}`, http.StatusBadRequest},
		{"empty tier defaults to free", `{"message": "Tell me about Botox"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, postChat(t, srv, tt.body).Code)
		})
	}
}

func TestHandleChatGenerationFailure(t *testing.T) {
	srv := newTestServer(t, &stubClient{err: errors.New("upstream down")})

	w := postChat(t, srv, `{"message": "Tell me about Botox", "tier": "free"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleChatSafetyInterceptionIsNotAnError(t *testing.T) {
	// Even with a broken generation backend, intercepted messages answer 200.
	srv := newTestServer(t, &stubClient{err: errors.New("upstream down")})

	w := postChat(t, srv, `{"message": "How many units of Botox do I need?", "tier": "free"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pkg.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "licensed provider")
	assert.True(t, resp.Intercepted)
	assert.Empty(t, resp.PersonaID)
}

func TestHandlePersonas(t *testing.T) {
	srv := newTestServer(t, &stubClient{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var personas []pkg.PersonaInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &personas))
	require.Len(t, personas, 9)
	for _, p := range personas {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.DisplayName)
	}
}

func TestHandleReload(t *testing.T) {
	srv := newTestServer(t, &stubClient{reply: "ok"})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pkg.ReloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Entries)
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	newTestServer(t, &stubClient{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	w := httptest.NewRecorder()
	newTestServer(t, &stubClient{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
