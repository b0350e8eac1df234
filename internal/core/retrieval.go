package core

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// Default result caps per tier.
const (
	defaultFreeMaxEntries    = 3
	defaultPremiumMaxEntries = 5
)

// Ranker filters the corpus by persona and tier and ranks the survivors by
// similarity to the query.  It never returns an error: an unavailable
// embedding backend degrades to corpus-order truncation, and an empty
// eligible set simply yields an empty slice.
type Ranker struct {
	holder     *Holder
	embedder   llm.Embedder
	log        *zap.Logger
	freeMax    int
	premiumMax int
}

// NewRanker constructs a ranker with the default per-tier caps.
func NewRanker(holder *Holder, embedder llm.Embedder, log *zap.Logger) *Ranker {
	return &Ranker{
		holder:     holder,
		embedder:   embedder,
		log:        log,
		freeMax:    defaultFreeMaxEntries,
		premiumMax: defaultPremiumMaxEntries,
	}
}

// SetMaxEntries overrides the per-tier result caps.  Non-positive values
// keep the defaults.
func (r *Ranker) SetMaxEntries(free, premium int) {
	if free > 0 {
		r.freeMax = free
	}
	if premium > 0 {
		r.premiumMax = premium
	}
}

func (r *Ranker) maxEntries(tier pkg.Tier) int {
	if tier == pkg.TierPremium {
		return r.premiumMax
	}
	return r.freeMax
}

// RelevantEntries returns the ranked grounding entries for a persona, tier,
// and query.  Entries without a stored embedding score 0 and sink to the
// bottom but remain eligible.  The sort is stable, so equal scores keep
// corpus order.
func (r *Ranker) RelevantEntries(ctx context.Context, personaID PersonaID, query string, tier pkg.Tier) []KnowledgeEntry {
	eligible := r.holder.Snapshot().Eligible(personaID, tier)
	if len(eligible) == 0 {
		return nil
	}
	limit := r.maxEntries(tier)

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		// Degraded retrieval: first N eligible entries in corpus order.
		r.log.Warn("retrieval ranking degraded to corpus order", zap.Error(err))
		if len(eligible) > limit {
			eligible = eligible[:limit]
		}
		return eligible
	}

	type scored struct {
		entry KnowledgeEntry
		score float64
	}
	ranked := make([]scored, len(eligible))
	for i, e := range eligible {
		var s float64
		if len(e.Embedding) > 0 {
			s = CosineSimilarity(queryVec, e.Embedding)
		}
		ranked[i] = scored{entry: e, score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]KnowledgeEntry, len(ranked))
	for i, s := range ranked {
		out[i] = s.entry
	}
	return out
}
