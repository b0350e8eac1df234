package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// KnowledgeEntry is one titled unit of grounding content, scoped to a single
// persona and tier.  The embedding is optional: entries without one still
// participate in filtering but score zero in similarity ranking.
type KnowledgeEntry struct {
	ID        string    `json:"id"`
	PersonaID PersonaID `json:"persona_id"`
	Tier      pkg.Tier  `json:"tier"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Library is an immutable snapshot of the knowledge corpus.  It is built
// once (at startup or on reload) and shared read-only across requests;
// nothing mutates it afterward.
type Library struct {
	entries []KnowledgeEntry
}

// NewLibrary builds a snapshot from a fixed entry set.  Used directly by
// tests; production snapshots come from LoadLibrary.
func NewLibrary(entries []KnowledgeEntry) *Library {
	cp := make([]KnowledgeEntry, len(entries))
	copy(cp, entries)
	return &Library{entries: cp}
}

// LoadLibrary scans a content directory once and parses every .json file as
// an array of knowledge entries.  A missing directory yields an empty
// corpus, not an error.  Files are read in name order so corpus order is
// deterministic.
func LoadLibrary(dir string) (*Library, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Library{}, nil
		}
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	var entries []KnowledgeEntry
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var batch []KnowledgeEntry
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		entries = append(entries, batch...)
	}
	return &Library{entries: entries}, nil
}

// Len returns the number of entries in the snapshot.
func (l *Library) Len() int { return len(l.entries) }

// Entries returns all entries in corpus order.  Callers must not mutate the
// returned slice elements.
func (l *Library) Entries() []KnowledgeEntry { return l.entries }

// Eligible returns, in corpus order, the entries a caller may draw on: the
// entry must belong to the persona, and premium entries are visible only to
// premium callers.
func (l *Library) Eligible(personaID PersonaID, tier pkg.Tier) []KnowledgeEntry {
	var out []KnowledgeEntry
	for _, e := range l.entries {
		if e.PersonaID != personaID {
			continue
		}
		if e.Tier == pkg.TierPremium && tier != pkg.TierPremium {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Validate checks corpus invariants: unique ids, resolvable persona ids,
// valid tiers, and uniform embedding dimensionality across entries that
// carry a vector.  Returns the first violation found.
func (l *Library) Validate() error {
	seen := make(map[string]bool, len(l.entries))
	dim := 0
	for _, e := range l.entries {
		if e.ID == "" {
			return fmt.Errorf("entry %q: missing id", e.Title)
		}
		if seen[e.ID] {
			return fmt.Errorf("entry %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if !KnownPersona(e.PersonaID) {
			return fmt.Errorf("entry %s: unknown persona %q", e.ID, e.PersonaID)
		}
		if !e.Tier.Valid() {
			return fmt.Errorf("entry %s: invalid tier %q", e.ID, e.Tier)
		}
		if len(e.Embedding) > 0 {
			if dim == 0 {
				dim = len(e.Embedding)
			} else if len(e.Embedding) != dim {
				return fmt.Errorf("entry %s: embedding dimension %d, corpus uses %d", e.ID, len(e.Embedding), dim)
			}
		}
	}
	return nil
}

// Holder owns the current library snapshot.  It is constructed once at
// process start and injected into the router, ranker, and engine; Reload
// swaps in a fresh snapshot atomically so readers never block and content
// updates do not require a restart.
type Holder struct {
	dir string
	log *zap.Logger
	ptr atomic.Pointer[Library]
}

// NewHolder performs the initial corpus load from dir.
func NewHolder(dir string, log *zap.Logger) (*Holder, error) {
	lib, err := LoadLibrary(dir)
	if err != nil {
		return nil, err
	}
	h := &Holder{dir: dir, log: log}
	h.ptr.Store(lib)
	log.Info("knowledge corpus loaded", zap.String("dir", dir), zap.Int("entries", lib.Len()))
	return h, nil
}

// NewStaticHolder wraps a fixed snapshot; Reload is a no-op re-store.
// Used by tests.
func NewStaticHolder(lib *Library) *Holder {
	h := &Holder{log: zap.NewNop()}
	h.ptr.Store(lib)
	return h
}

// Snapshot returns the current immutable library.
func (h *Holder) Snapshot() *Library { return h.ptr.Load() }

// Reload rebuilds the snapshot from the content directory and swaps it in.
// On error the previous snapshot stays live.
func (h *Holder) Reload() (int, error) {
	if h.dir == "" {
		return h.Snapshot().Len(), nil
	}
	lib, err := LoadLibrary(h.dir)
	if err != nil {
		h.log.Error("corpus reload failed, keeping previous snapshot", zap.Error(err))
		return 0, err
	}
	h.ptr.Store(lib)
	h.log.Info("knowledge corpus reloaded", zap.Int("entries", lib.Len()))
	return lib.Len(), nil
}
