package assistant

import "regexp"

// Injection denylist. Matching input is refused outright before any
// planning happens; the screen is an absolute gate independent of the
// planner and its provider.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunion\b[\s\S]*\bselect\b`),
	regexp.MustCompile(`(?i)\bselect\b[\s\S]*\bfrom\b`),
	regexp.MustCompile(`(?i)\bdelete\b[\s\S]*\bfrom\b`),
	regexp.MustCompile(`(?i)\binsert\s+into\b`),
	regexp.MustCompile(`(?i)\bdrop\s+table\b`),
	regexp.MustCompile(`(?i)<\s*script\b`),
	regexp.MustCompile(`(?i)<\s*(?:iframe|img|svg)\b`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon(?:error|load|click|mouseover|focus)\s*=`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)data:text/`),
}

// InputRejected reports whether the raw prompt trips the denylist.
func InputRejected(text string) bool {
	for _, re := range injectionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
