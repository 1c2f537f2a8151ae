package extract

import (
	"regexp"
	"strings"
)

// contextLimit bounds how long a non-matching neighbor paragraph may be
// and still be included as context around a hit.
const contextLimit = 200

var (
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`([.!?])\s+`)
)

// Relevant scans free text for the paragraphs relevant to a category.
// Paragraph-level substring matches win; each hit brings along its short
// non-matching neighbors for context. When no paragraph hits, it falls
// back to sentence-level matching over the whitespace-normalized text.
// The empty string means nothing matched.
func Relevant(text, category string) string {
	keywords := Keywords(category)
	if len(keywords) == 0 || strings.TrimSpace(text) == "" {
		return ""
	}

	// A single unbroken block carries no paragraph structure to window
	// over; go straight to sentence granularity so one relevant sentence
	// does not drag the whole document along.
	paragraphs := splitParagraphs(text)
	hits := make([]bool, len(paragraphs))
	anyHit := false
	if len(paragraphs) > 1 {
		for i, p := range paragraphs {
			if containsAny(strings.ToLower(p), keywords) {
				hits[i] = true
				anyHit = true
			}
		}
	}

	var lines []string
	if anyHit {
		for i := range paragraphs {
			if !hits[i] {
				continue
			}
			if i > 0 && !hits[i-1] && len(paragraphs[i-1]) < contextLimit {
				lines = append(lines, paragraphs[i-1])
			}
			lines = append(lines, paragraphs[i])
			if i+1 < len(paragraphs) && !hits[i+1] && len(paragraphs[i+1]) < contextLimit {
				lines = append(lines, paragraphs[i+1])
			}
		}
	} else {
		normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
		for _, s := range splitSentences(normalized) {
			if containsAny(strings.ToLower(s), keywords) {
				lines = append(lines, s)
			}
		}
	}

	if len(lines) == 0 {
		return ""
	}

	out := []string{"Trechos relevantes (" + category + "):"}
	seen := map[string]struct{}{}
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range blankLineRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences cuts on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	marked := sentenceRe.ReplaceAllString(text, "$1\x00")
	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
