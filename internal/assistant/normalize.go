package assistant

import (
	"regexp"
	"strings"
)

// Filler and imperative phrases stripped from queries before matching.
// Ordered longest-first so multi-word phrases win over their prefixes.
var fillerPhrases = []string{
	"can you please",
	"could you please",
	"i would like to",
	"i'd like to",
	"i want to",
	"looking for",
	"search for",
	"show me",
	"find me",
	"look for",
	"can you",
	"could you",
	"would you",
	"please",
	"uhmm",
	"uhm",
	"umm",
	"find",
	"uh",
}

var synonyms = map[string]string{
	"tech": "technology",
	"edu":  "education",
	"env":  "environment",
	"eco":  "environment",
	"med":  "medical",
}

var (
	fillerRe     = regexp.MustCompile(`\b(?:` + strings.Join(quoteAll(fillerPhrases), "|") + `)\b`)
	charsetRe    = regexp.MustCompile(`[^a-z0-9$ .-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func quoteAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = regexp.QuoteMeta(p)
	}
	return out
}

// Normalize turns noisy free text into a canonical ordered token set for
// keyword search. It is pure and total: any input yields a (possibly
// empty) token slice, and normalizing canonical tokens is a no-op.
func Normalize(raw string) []string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return nil
	}
	text = fillerRe.ReplaceAllString(text, " ")
	text = charsetRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(text) {
		if mapped, ok := synonyms[tok]; ok {
			tok = mapped
		}
		tok = singularize(tok)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// singularize applies light plural stripping to tokens of four or more
// characters: "...ies" -> "...y", "...(x|ch|sh|ss|z|o)es" -> drop "es",
// trailing "s" (not "ss") -> drop.
func singularize(tok string) string {
	if len(tok) < 4 {
		return tok
	}
	if strings.HasSuffix(tok, "ies") {
		return tok[:len(tok)-3] + "y"
	}
	if strings.HasSuffix(tok, "es") {
		stem := tok[:len(tok)-2]
		if strings.HasSuffix(stem, "x") || strings.HasSuffix(stem, "ch") ||
			strings.HasSuffix(stem, "sh") || strings.HasSuffix(stem, "ss") ||
			strings.HasSuffix(stem, "z") || strings.HasSuffix(stem, "o") {
			return stem
		}
	}
	if strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
		return tok[:len(tok)-1]
	}
	return tok
}
