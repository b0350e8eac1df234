package pkg

// Tier is the access level of the caller.  Premium callers may draw on the
// full knowledge corpus for a persona; free callers see only free entries.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// ChatRequest is the payload accepted by POST /api/chat.  MascotID is the
// persona the caller explicitly asked for; when omitted the engine routes the
// message itself.  MemoryContext is an opaque, pre-formatted string supplied
// by the caller; the engine injects it into the prompt verbatim and never
// computes or stores it.
type ChatRequest struct {
	Message       string `json:"message"`
	MascotID      string `json:"mascot_id,omitempty"`
	Tier          Tier   `json:"tier"`
	MemoryContext string `json:"memory_context,omitempty"`
}

// ChatResponse carries the assistant's reply.  Reply is always non-empty and
// always ends with a disclaimer block.
type ChatResponse struct {
	Reply       string `json:"reply"`
	PersonaID   string `json:"persona_id,omitempty"`
	Intercepted bool   `json:"intercepted"`
}

// PersonaInfo is the public view of a persona, used by the persona picker.
type PersonaInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ReloadResponse reports the outcome of an operator-triggered corpus reload.
type ReloadResponse struct {
	Entries int `json:"entries"`
}
