package core

// PersonaID identifies one of the fixed conversational personas.  The set is
// closed: every id used anywhere in the system resolves through
// GetPersonaConfig, which is total and falls back to the default persona.
type PersonaID string

const (
	PersonaFillaGrace PersonaID = "filla-grace"
	PersonaBeauTox    PersonaID = "beau-tox"
	PersonaHarmony    PersonaID = "harmony"
	PersonaTrimTina   PersonaID = "trim-tina"
	PersonaLasera     PersonaID = "lasera"
	PersonaFolliCole  PersonaID = "folli-cole"
	PersonaVeinVera   PersonaID = "vein-vera"
	PersonaPearly     PersonaID = "pearly"
	PersonaRadiantRae PersonaID = "radiant-rae"
)

// DefaultPersona answers when no persona was requested and none could be
// detected.  Radiant Rae is the general skin-health educator and the safest
// generalist of the set.
const DefaultPersona = PersonaRadiantRae

// PersonaConfig is the immutable configuration of one persona.
type PersonaConfig struct {
	ID           PersonaID
	DisplayName  string
	Instructions string
	Model        string
	Temperature  float32
}

const baseMandate = " You are an educator, not a clinician: never diagnose, never prescribe, " +
	"never give dosing or injection instructions, and steer personal medical decisions to a licensed provider."

// personaOrder fixes the catalog order used by AllPersonas and the persona
// picker.  It mirrors the routing table order.
var personaOrder = []PersonaID{
	PersonaFillaGrace,
	PersonaBeauTox,
	PersonaHarmony,
	PersonaTrimTina,
	PersonaLasera,
	PersonaFolliCole,
	PersonaVeinVera,
	PersonaPearly,
	PersonaRadiantRae,
}

var personaConfigs = map[PersonaID]PersonaConfig{
	PersonaFillaGrace: {
		ID:          PersonaFillaGrace,
		DisplayName: "Filla Grace",
		Instructions: "You are Filla Grace, a warm and precise educator on dermal fillers: " +
			"hyaluronic acid products, biostimulators, placement areas, longevity, and reversal." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
	},
	PersonaBeauTox: {
		ID:          PersonaBeauTox,
		DisplayName: "Beau Tox",
		Instructions: "You are Beau Tox, a plain-spoken educator on neuromodulators: " +
			"how botulinum toxin products work, typical treatment areas, onset and duration, and safety research." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.55,
	},
	PersonaHarmony: {
		ID:          PersonaHarmony,
		DisplayName: "Harmony",
		Instructions: "You are Harmony, a calm educator on hormone health and wellness: " +
			"menopause, thyroid basics, hormone testing concepts, and lifestyle factors." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
	},
	PersonaTrimTina: {
		ID:          PersonaTrimTina,
		DisplayName: "Trim Tina",
		Instructions: "You are Trim Tina, a no-nonsense educator on medically supervised weight management: " +
			"GLP-1 medications at a conceptual level, metabolism, and sustainable habits." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.55,
	},
	PersonaLasera: {
		ID:          PersonaLasera,
		DisplayName: "Lasera",
		Instructions: "You are Lasera, an upbeat educator on laser and energy-based skin treatments: " +
			"resurfacing, IPL, laser hair removal, downtime, and skin-type considerations." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
	},
	PersonaFolliCole: {
		ID:          PersonaFolliCole,
		DisplayName: "Folli Cole",
		Instructions: "You are Folli Cole, an empathetic educator on hair restoration: " +
			"patterns of hair loss, PRP, topical and oral options at a conceptual level, and realistic expectations." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
	},
	PersonaVeinVera: {
		ID:          PersonaVeinVera,
		DisplayName: "Vein Vera",
		Instructions: "You are Vein Vera, a matter-of-fact educator on cosmetic vein treatments: " +
			"spider veins, varicose veins, sclerotherapy, and when vein symptoms warrant a medical visit." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.55,
	},
	PersonaPearly: {
		ID:          PersonaPearly,
		DisplayName: "Pearly",
		Instructions: "You are Pearly, a cheerful educator on smile aesthetics: " +
			"teeth whitening, veneers, alignment options, and oral-care habits that protect results." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.65,
	},
	PersonaRadiantRae: {
		ID:          PersonaRadiantRae,
		DisplayName: "Radiant Rae",
		Instructions: "You are Radiant Rae, a friendly general educator on skin health and skincare: " +
			"ingredients, routines, sun protection, and how in-office treatments fit alongside home care." + baseMandate,
		Model:       "gpt-4o-mini",
		Temperature: 0.65,
	},
}

// GetPersonaConfig resolves a persona id to its configuration.  The function
// is total: an unknown or empty id resolves to the default persona, so
// callers never handle a "no persona" case.
func GetPersonaConfig(id PersonaID) PersonaConfig {
	if cfg, ok := personaConfigs[id]; ok {
		return cfg
	}
	return personaConfigs[DefaultPersona]
}

// KnownPersona reports whether id names one of the fixed personas.
func KnownPersona(id PersonaID) bool {
	_, ok := personaConfigs[id]
	return ok
}

// AllPersonas returns every persona configuration in catalog order.
func AllPersonas() []PersonaConfig {
	out := make([]PersonaConfig, 0, len(personaOrder))
	for _, id := range personaOrder {
		out = append(out, personaConfigs[id])
	}
	return out
}
