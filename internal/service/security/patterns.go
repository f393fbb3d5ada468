package security

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Literal adversarial patterns checked before any network call. Each entry
// names the issue that ends up in the verdict's DetectedIssues.
var adversarialPatterns = []struct {
	issue string
	re    *regexp.Regexp
}{
	{"instruction_override", regexp.MustCompile(`(?i)\b(ignore|disregard|forget|olvida|ignora)\b.{0,40}\b(instructions?|prompts?|rules?|instrucciones|reglas)\b`)},
	{"role_override", regexp.MustCompile(`(?i)\b(you are now|act as|pretend to be|ahora eres|act[uú]a como)\b`)},
	{"prompt_leak", regexp.MustCompile(`(?i)\b(system prompt|reveal your (instructions|prompt)|show me your (instructions|prompt)|repeat your (instructions|prompt))\b`)},
	{"jailbreak", regexp.MustCompile(`(?i)\b(jailbreak|dan mode|developer mode enabled|sin restricciones)\b`)},
}

// patternCheck returns the issues a message trips without calling a model.
func patternCheck(message string, maxLen int) []string {
	var issues []string

	if utf8.RuneCountInString(message) > maxLen {
		issues = append(issues, "message_too_long")
	}

	for _, p := range adversarialPatterns {
		if p.re.MatchString(message) {
			issues = append(issues, p.issue)
		}
	}

	if hasExcessiveRepetition(message) {
		issues = append(issues, "excessive_repetition")
	}

	return issues
}

// hasExcessiveRepetition flags flood-style inputs: the same token making up
// most of a long message.
func hasExcessiveRepetition(message string) bool {
	tokens := strings.Fields(message)
	if len(tokens) < 20 {
		return false
	}

	counts := make(map[string]int, len(tokens))
	max := 0
	for _, tok := range tokens {
		counts[tok]++
		if counts[tok] > max {
			max = counts[tok]
		}
	}

	return max*2 > len(tokens)
}
