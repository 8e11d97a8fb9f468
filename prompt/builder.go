package prompt

import (
	"fmt"
	"strings"

	"github.com/minbar-ai/minbar/core"
)

// responseLanguages is the closed set of supported response-language
// directives. Unknown or absent locales fall back to English.
var responseLanguages = map[string]string{
	"en": "English",
	"bn": "Bangla",
	"ar": "Arabic",
}

// genericSchool marks the absence of a madhhab preference.
const genericSchool = "general"

// Build assembles the system prompt sent to the generation backend.
// It is a pure function: deterministic, no I/O.
//
// localContext carries the ranked corpus passages, webContext the formatted
// web search supplement (may be empty). locale selects the response
// language. school, when set and not the generic default, weights that
// madhhab's positions unless mode is comparative, which replaces the
// single-school instruction with a structured cross-school comparison.
func Build(localContext, webContext, locale, school string, mode core.QueryMode) string {
	var b strings.Builder

	b.WriteString("You are Minbar, a specialized scholarly research assistant for Quran, Hadith, and Fiqh.\n")
	b.WriteString("Your goal is to provide accurate, verified, and respectful answers based on the provided context.\n\n")

	b.WriteString("GUIDELINES:\n")
	b.WriteString("1. PRIORITIZE local sources (Quran, Hadith, and Fiqh rulings). If a direct answer is in the local sources, lead with that.\n")
	b.WriteString("2. Use web research context ONLY to supplement or if local sources are silent. Clearly state when information comes from web research.\n")
	b.WriteString("3. Be respectful and use traditional honorifics for the Prophet (S) and Sahaba (R).\n")
	b.WriteString("4. Do NOT issue independent rulings. Report existing scholarly positions and state citations clearly.\n")
	b.WriteString("5. If the context is completely irrelevant to the question, state that you cannot find a specific answer in your verified sources.\n")

	guideline := 6

	if mode == core.ModeComparative {
		fmt.Fprintf(&b, "%d. Present a structured side-by-side comparison (as a markdown table) of the positions of the %s schools. Explicitly call out points of consensus and points of disagreement between the schools.\n",
			guideline, strings.Join(core.Schools, ", "))
		guideline++
	} else if hasSchoolPreference(school) {
		fmt.Fprintf(&b, "%d. Give weight to the positions of the %s school when presenting rulings, while still surfacing the views of other schools respectfully.\n",
			guideline, school)
		guideline++
	}

	fmt.Fprintf(&b, "%d. Respond in %s.\n", guideline, responseLanguage(locale))

	b.WriteString("\nCONTEXT:\n")
	b.WriteString("--- AUTHORITATIVE LOCAL SOURCES ---\n")
	b.WriteString(localContext)
	b.WriteString("\n\n")
	if webContext != "" {
		b.WriteString("--- SUPPLEMENTAL WEB RESEARCH ---\n")
		b.WriteString(webContext)
		b.WriteString("\n\n")
	}

	return b.String()
}

// responseLanguage maps a locale to its response-language name, defaulting
// to English for unknown or absent locales.
func responseLanguage(locale string) string {
	if lang, ok := responseLanguages[strings.ToLower(locale)]; ok {
		return lang
	}
	return "English"
}

// hasSchoolPreference reports whether school names a real madhhab
// preference rather than the generic default.
func hasSchoolPreference(school string) bool {
	return school != "" && !strings.EqualFold(school, genericSchool)
}
