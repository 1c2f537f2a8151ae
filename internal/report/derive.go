package report

import "strings"

// DeriveInsalubrityGrade probes the free-form result text for the grade
// keywords used by existing report history rows. The substring match is
// the documented contract: structured grade fields are a candidate for a
// future schema revision, not for this code path.
func DeriveInsalubrityGrade(resultText string) string {
	t := strings.ToLower(resultText)
	switch {
	case strings.Contains(t, "grau máximo"):
		return "máximo"
	case strings.Contains(t, "grau médio"):
		return "médio"
	case strings.Contains(t, "grau mínimo"):
		return "mínimo"
	default:
		return ""
	}
}

// DerivePericulosityIdentified reports whether the result text states
// that hazardous conditions were found, matching "constatad" to cover
// the inflected forms ("constatada", "constatado", "constatadas").
func DerivePericulosityIdentified(resultText string) bool {
	return strings.Contains(strings.ToLower(resultText), "constatad")
}

// ExtractConclusion pulls the conclusion body out of an assembled report
// so the history row can store it alongside the full text. The conclusion
// is the last section, so the body runs until the generation trailer; an
// internal blank line is part of the body, not a terminator.
func ExtractConclusion(fullText string) string {
	marker := "21. " + sectionTitles[20] + "\n"
	idx := strings.Index(fullText, marker)
	if idx < 0 {
		return ""
	}
	rest := fullText[idx+len(marker):]
	if end := strings.LastIndex(rest, "\n\nLaudo gerado em "); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
