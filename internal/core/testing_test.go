package core

import (
	"context"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
)

// fakeEmbedder returns canned vectors by exact text, a default vector for
// everything else, or a fixed error when the backend should look down.
type fakeEmbedder struct {
	vecs  map[string][]float32
	def   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return f.def, nil
}

// fakeClient records the last generation request and returns a canned reply.
type fakeClient struct {
	lastReq llm.GenerationRequest
	reply   string
	err     error
	calls   int
}

func (f *fakeClient) Generate(_ context.Context, req llm.GenerationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
