package core

// keywordRoute maps a set of trigger keywords to a persona.  Matching is
// case-insensitive substring containment.
type keywordRoute struct {
	Persona  PersonaID
	Keywords []string
}

// keywordRoutes is evaluated first-match-wins, so order is part of the
// design: it encodes priority among personas with overlapping vocabulary.
// "filler" outranks "neuromodulator" in a message mentioning both, and
// "hormone" outranks "weight".  Preserve the order exactly; reordering is a
// product decision, not a refactor.
var keywordRoutes = []keywordRoute{
	{PersonaFillaGrace, []string{"filler", "juvederm", "restylane", "hyaluronic", "lip volume"}},
	{PersonaBeauTox, []string{"botox", "neuromodulator", "neurotoxin", "dysport", "xeomin", "wrinkle relaxer"}},
	{PersonaHarmony, []string{"hormone", "estrogen", "testosterone", "menopause", "thyroid"}},
	{PersonaTrimTina, []string{"weight", "glp-1", "semaglutide", "tirzepatide", "metabolism"}},
	{PersonaLasera, []string{"laser", "ipl", "resurfacing", "hair removal"}},
	{PersonaFolliCole, []string{"hair loss", "thinning hair", "prp", "minoxidil", "hairline"}},
	{PersonaVeinVera, []string{"spider vein", "varicose", "sclerotherapy", "vein"}},
	{PersonaPearly, []string{"teeth whitening", "veneer", "smile makeover", "invisalign"}},
	{PersonaRadiantRae, []string{"skincare", "retinol", "moisturizer", "sunscreen", "acne", "skin barrier"}},
}
