// Package pii masks personally identifiable information in document text.
//
// Each Kind pairs a pattern with a placeholder that replaces every match:
//
//	masked, n := pii.Mask("write to ada@example.com", pii.Email)
//	// masked == "write to |||EMAIL_ADDRESS|||", n == 1
package pii

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is a category of personal information.
type Kind int

const (
	// Email matches email addresses
	Email Kind = iota
	// Phone matches North American phone numbers with optional extension
	Phone
	// IPAddress matches dotted-quad IPv4 addresses
	IPAddress
)

// Kinds lists every Kind in masking order.
var Kinds = []Kind{Email, Phone, IPAddress}

var patterns = map[Kind]*regexp.Regexp{
	Email:     regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`),
	Phone:     regexp.MustCompile(`(?i)(?:\+1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}(?:(?:ext|x|ext\.)\s*\d{2,5})?`),
	IPAddress: regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`),
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Email:
		return "email"
	case Phone:
		return "phone_number"
	case IPAddress:
		return "ip_address"
	default:
		return "unknown"
	}
}

// Placeholder returns the text that replaces matches of this kind.
func (k Kind) Placeholder() string {
	switch k {
	case Email:
		return "|||EMAIL_ADDRESS|||"
	case Phone:
		return "|||PHONE_NUMBER|||"
	case IPAddress:
		return "|||IP_ADDRESS|||"
	default:
		return ""
	}
}

// ParseKind resolves a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return Email, nil
	case "phone", "phone_number":
		return Phone, nil
	case "ip", "ip_address":
		return IPAddress, nil
	default:
		return Email, fmt.Errorf("unknown pii kind %q", s)
	}
}

// ParseKinds resolves every entry of names, failing on the first unknown one.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Mask replaces every match of kind in text and returns the number replaced.
func Mask(text string, kind Kind) (string, int) {
	re, ok := patterns[kind]
	if !ok {
		return text, 0
	}

	count := 0
	masked := re.ReplaceAllStringFunc(text, func(string) string {
		count++
		return kind.Placeholder()
	})
	return masked, count
}

// Counts records matches replaced per kind.
type Counts map[Kind]int

// Total returns the number of replacements across all kinds.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// MaskAll applies Mask for each kind in turn. With no kinds it masks all of them.
func MaskAll(text string, kinds ...Kind) (string, Counts) {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	counts := make(Counts, len(kinds))
	for _, k := range kinds {
		var n int
		text, n = Mask(text, k)
		counts[k] += n
	}
	return text, counts
}
