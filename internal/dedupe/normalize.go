package dedupe

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	multiSpace = regexp.MustCompile(`\s{2,}`)
	nonDigit   = regexp.MustCompile(`\D`)
)

// nameFolder strips combining marks so accented and plain spellings of
// the same name compare equal.
var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizePhone formats a phone number to E.164 for comparison. When
// parsing fails the digits of the raw input are kept so differently
// punctuated copies of the same number still match.
func NormalizePhone(raw, region string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	return nonDigit.ReplaceAllString(trimmed, "")
}

// FoldName lowercases, strips diacritics, and collapses whitespace.
func FoldName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(nameFolder, n); err == nil {
		n = folded
	}
	n = multiSpace.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// NameSimilarity returns a 0-1 similarity between two names after
// folding. Empty names never match.
func NameSimilarity(a, b string) float64 {
	fa, fb := FoldName(a), FoldName(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}
	return levenshtein.Similarity(fa, fb, nil)
}

// emailDomain returns the lowercased domain part of an email address,
// or empty when the address has no domain.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}
