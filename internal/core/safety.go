package core

import "regexp"

// The safety gate is a small rule engine, not ad hoc string matching.  Each
// rule is named so it can be unit-tested and audited independently.  Two
// independent families are evaluated: diagnosis-seeking phrasing and
// treatment-instruction phrasing.  Either family matching intercepts the
// message before any routing, embedding, or generation call.

// SafetyFamily groups safety rules by the kind of request they intercept.
type SafetyFamily string

const (
	FamilyDiagnosis SafetyFamily = "diagnosis"
	FamilyTreatment SafetyFamily = "treatment"
)

// SafetyRule is one auditable interception pattern.
type SafetyRule struct {
	Name    string
	Family  SafetyFamily
	Pattern *regexp.Regexp
}

// safetyRules is the ordered rule list.  Order only affects which rule is
// reported as matching; any hit intercepts.
var safetyRules = []SafetyRule{
	{
		Name:    "do-i-have",
		Family:  FamilyDiagnosis,
		Pattern: regexp.MustCompile(`(?i)\bdo i have\b`),
	},
	{
		Name:    "whats-wrong-with-me",
		Family:  FamilyDiagnosis,
		Pattern: regexp.MustCompile(`(?i)\bwhat('?s| is) wrong with me\b`),
	},
	{
		Name:    "diagnose-me",
		Family:  FamilyDiagnosis,
		Pattern: regexp.MustCompile(`(?i)\b(diagnose (me|my|this)|self[- ]diagnos)`),
	},
	{
		Name:    "is-this-serious",
		Family:  FamilyDiagnosis,
		Pattern: regexp.MustCompile(`(?i)\bis (this|it) (cancer|an? infection|serious|dangerous)\b`),
	},
	{
		Name:    "dosage-units",
		Family:  FamilyTreatment,
		Pattern: regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(units?|mg|mcg|ml|cc|iu)\b`),
	},
	{
		Name:    "how-many-units",
		Family:  FamilyTreatment,
		Pattern: regexp.MustCompile(`(?i)\bhow (many|much)\b.*\b(units?|mg|mcg|ml|cc|syringes?|vials?)\b`),
	},
	{
		Name:    "how-to-inject",
		Family:  FamilyTreatment,
		Pattern: regexp.MustCompile(`(?i)\bhow (do i|to|can i) (inject|self[- ]inject|administer)\b`),
	},
	{
		Name:    "prescribe",
		Family:  FamilyTreatment,
		Pattern: regexp.MustCompile(`(?i)\bprescri(be|ption|bing)\b`),
	},
	{
		Name:    "treatment-plan",
		Family:  FamilyTreatment,
		Pattern: regexp.MustCompile(`(?i)\btreatment plan\b`),
	},
}

// NeedsSafetyResponse reports whether the raw message must be intercepted
// before any model call.  Pure function over text; no side effects.
func NeedsSafetyResponse(text string) bool {
	_, hit := MatchSafetyRule(text)
	return hit
}

// MatchSafetyRule returns the first rule matching the text, for audit and
// tests.  Evaluation order follows the rule list.
func MatchSafetyRule(text string) (SafetyRule, bool) {
	for _, r := range safetyRules {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return SafetyRule{}, false
}

// SafetyResponse returns the fixed interception text.
func SafetyResponse() string {
	return safetyText
}

// SafetyRules exposes a copy of the rule list for audit tooling.
func SafetyRules() []SafetyRule {
	out := make([]SafetyRule, len(safetyRules))
	copy(out, safetyRules)
	return out
}
