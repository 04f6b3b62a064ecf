// Package validators holds field-level validation for the values the
// adhesion workflow collects. All functions are pure; normalization
// (trimming, case) happens in the normalize package before these run.
package validators

import "strings"

// PdlPrm reports whether s is a well-formed delivery-point identifier:
// exactly 14 digits, nothing else.
func PdlPrm(s string) bool {
	if len(s) != 14 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IBAN reports whether s passes the ISO 13616 structural check: 15–34
// alphanumeric characters, country prefix, and a valid mod-97 checksum.
// s must already be normalized (uppercase, no spaces).
func IBAN(s string) bool {
	if len(s) < 15 || len(s) > 34 {
		return false
	}
	if !isUpperAlpha(s[0]) || !isUpperAlpha(s[1]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isUpperAlpha(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	// Move the first four characters to the end, expand letters to
	// two-digit numbers (A=10 … Z=35), and take the remainder mod 97.
	rearranged := s[4:] + s[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		if isDigit(c) {
			rem = (rem*10 + int(c-'0')) % 97
		} else {
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		}
	}
	return rem == 1
}

// BIC reports whether s has the ISO 9362 shape: 4 letters (bank), 2
// letters (country), 2 alphanumerics (location), and an optional 3
// alphanumeric branch code. s must already be normalized.
func BIC(s string) bool {
	if len(s) != 8 && len(s) != 11 {
		return false
	}
	for i := 0; i < 6; i++ {
		if !isUpperAlpha(s[i]) {
			return false
		}
	}
	for i := 6; i < len(s); i++ {
		if !isUpperAlpha(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// Phone accepts the loose French formats members actually type: an
// optional +CC prefix, then 6–14 digits with spaces, dots, or dashes as
// separators.
func Phone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			digits++
		case c == ' ' || c == '.' || c == '-':
			// separator
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 14
}

// SimpleEmailValid is the same light check the login form uses: one @
// with a dot somewhere after it.
func SimpleEmailValid(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	dot := strings.LastIndex(s, ".")
	return dot > at+1 && dot < len(s)-1
}

func isUpperAlpha(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
