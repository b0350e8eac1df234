package core

import (
	"fmt"
	"strings"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/pkg"
)

// prompts.go defines the fixed response texts and the prompt assembly rules.
// Keeping these in a separate file makes them easy to tweak without touching
// the rest of the engine.  The section order of the assembled prompt
// (instructions, memory, LIBRARY CONTEXT, RESPONSE RULES) is a compatibility
// contract with the surrounding product and must not change.

const (
	// disclaimerSeparator splits the substantive reply from the trailing
	// disclaimer.  The literal byte sequence is part of the output contract.
	disclaimerSeparator = "\n\n---\n"

	// disclaimerText is appended to every substantive output exactly once.
	disclaimerText = "This conversation is for general education only. It is not medical advice, " +
		"a diagnosis, or a treatment recommendation. Always talk to a licensed provider " +
		"about your own care."

	// safetyText is returned whenever the safety gate intercepts a message.
	// It is fixed and never varies by persona.
	safetyText = "I can't help with diagnosing a condition or with dosing and treatment " +
		"instructions. Those decisions need a licensed provider who can examine you. " +
		"I'm happy to explain how treatments work in general, what questions to ask at " +
		"a consultation, or what the research says."

	// freeStyleRule and premiumStyleRule are the tier-dependent style
	// directives placed in the RESPONSE RULES section.
	freeStyleRule    = "Keep the answer to a single short paragraph of at most 120 words."
	premiumStyleRule = "Give a thorough, multi-paragraph answer that covers nuance and trade-offs."

	clarifyingRule = "You may offer at most one clarifying question, and only if it would materially improve the answer."
)

// handoffSuggestion is returned instead of an answer when the caller pinned a
// persona but the router is confident a different persona owns the topic.
// Suggest, don't auto-switch: persona identity is user-facing.
func handoffSuggestion(detected PersonaConfig) string {
	return fmt.Sprintf("This sounds like a question for %s, who covers this topic. "+
		"Would you like to switch to %s? I'd rather hand you over than guess outside my lane.",
		detected.DisplayName, detected.DisplayName)
}

// outOfLaneMessage is returned when the active persona has no eligible
// knowledge for the topic.  When the router detected a better-fitting persona
// the message names it; otherwise it points at the persona picker generally.
func outOfLaneMessage(detected *PersonaConfig) string {
	if detected != nil {
		return fmt.Sprintf("That topic is outside my lane, so I won't guess. "+
			"%s covers this area. Try switching personas and asking again.", detected.DisplayName)
	}
	return "That topic is outside my lane, so I won't guess. " +
		"One of the other guides may cover it. Try switching personas and asking again."
}

// appendDisclaimer appends the disclaimer block unless the text already
// carries the separator.  The append is idempotent: the separator appears
// exactly once in final output.
func appendDisclaimer(text string) string {
	if strings.Contains(text, disclaimerSeparator) {
		return text
	}
	return text + disclaimerSeparator + disclaimerText
}

// buildPrompt assembles the system instructions for a generation call.
// Section order is fixed: persona instructions, optional memory block,
// LIBRARY CONTEXT, RESPONSE RULES.
func buildPrompt(persona PersonaConfig, memory string, entries []KnowledgeEntry, tier pkg.Tier) string {
	var b strings.Builder
	b.WriteString(persona.Instructions)

	if memory != "" {
		b.WriteString("\n\nMEMORY:\n")
		b.WriteString(memory)
	}

	b.WriteString("\n\nLIBRARY CONTEXT:\n")
	b.WriteString("Ground your answer in the entries below. Do not invent facts beyond them.\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n### %s\n%s\n\n%s\n", e.Title, e.Summary, e.Body)
	}

	b.WriteString("\nRESPONSE RULES:\n")
	if tier == pkg.TierPremium {
		b.WriteString("- " + premiumStyleRule + "\n")
	} else {
		b.WriteString("- " + freeStyleRule + "\n")
	}
	b.WriteString("- " + clarifyingRule + "\n")
	b.WriteString("- Never diagnose, prescribe, or give dosing instructions.\n")
	return b.String()
}
