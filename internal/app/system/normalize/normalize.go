// Package normalize trims and canonicalizes user input before
// validation and storage.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person or project name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// PdlPrm strips spaces from a delivery-point identifier. Invoices often
// print the 14 digits in groups of two.
func PdlPrm(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// IBAN uppercases and strips spaces; IBANs are printed in groups of four.
func IBAN(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// BIC uppercases and trims.
func BIC(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Phone trims; separators are preserved for display and tolerated by
// validation.
func Phone(s string) string {
	return strings.TrimSpace(s)
}
