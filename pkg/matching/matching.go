// Package matching provides the normalization and similarity primitives
// shared by the contact resolver, the duplicate detector, and the
// consistency auditors. Every function is pure and total: empty or
// malformed input yields an empty/zero result, never an error.
package matching

import (
	"strings"
	"unicode"
)

// NormalizeName lowercases, strips punctuation, and collapses
// whitespace so that display-name variants compare equal.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDomain cleans up a malformed domain: lowercase, strip a
// leading http:// or https:// scheme, strip a leading www., strip
// trailing slashes. Idempotent.
func NormalizeDomain(domain string) string {
	if domain == "" {
		return ""
	}
	clean := strings.ToLower(domain)
	clean = strings.TrimPrefix(clean, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	clean = strings.TrimPrefix(clean, "www.")
	clean = strings.TrimRight(clean, "/")
	return clean
}

// ExtractDomain returns the lowercased domain of an email address, or
// "" when the input has no @.
func ExtractDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if email == "" || at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ParseName splits a display name into first and last name. A single
// token becomes the first name; everything after the first token joins
// into the last name.
func ParseName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// NameSimilarity scores two names in [0,1] using a Levenshtein ratio
// over their normalized forms. Either side empty scores 0.
func NameSimilarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == "" || nb == "" {
		return 0.0
	}
	return ratio(na, nb)
}

// EmailSimilarity scores two email addresses in [0,1]. Exact matches
// score 1.0; same-domain addresses blend a 0.5 base with the local-part
// ratio; everything else falls back to the full-string ratio.
func EmailSimilarity(a, b string) float64 {
	ea := NormalizeEmail(a)
	eb := NormalizeEmail(b)
	if ea == "" || eb == "" {
		return 0.0
	}
	if ea == eb {
		return 1.0
	}

	if la, da, ok := splitEmail(ea); ok {
		if lb, db, ok := splitEmail(eb); ok && da == db {
			return 0.5 + ratio(la, lb)*0.5
		}
	}
	return ratio(ea, eb)
}

// PhonesMatch reports whether two phone numbers refer to the same line:
// both must normalize to at least 7 digits and share their last 10.
// The suffix rule tolerates country-code and formatting variance
// without false-matching short numbers.
func PhonesMatch(a, b string) bool {
	pa := NormalizePhone(a)
	pb := NormalizePhone(b)
	if len(pa) < 7 || len(pb) < 7 {
		return false
	}
	return lastN(pa, 10) == lastN(pb, 10)
}

func splitEmail(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// ratio converts Levenshtein distance into a similarity in [0,1].
func ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Use a single row of the DP table for space efficiency
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// minInt returns the minimum of three integers.
func minInt(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
