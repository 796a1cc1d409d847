package domain

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ValidateName rejects blank values for required text fields
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newError(ErrInvalidFormat, field, value, "is required")
	}
	return nil
}

// ValidateEmail checks that s is a single bare email address
func ValidateEmail(s string) error {
	invalid := newError(ErrInvalidFormat, "email", s, "invalid email format")

	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return invalid
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return invalid
	}

	at := strings.LastIndex(s, "@")
	local, host := s[:at], s[at+1:]
	if local == "" || host == "" || !isASCII(local) {
		return invalid
	}

	if host == "localhost" {
		return nil
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return invalid
	}
	for _, label := range labels {
		if !isHostLabel(label) {
			return invalid
		}
	}

	if !isTopLevelLabel(labels[len(labels)-1]) {
		return invalid
	}

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// isHostLabel accepts letters, digits and inner hyphens, up to 63 bytes
func isHostLabel(label string) bool {
	if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

// isTopLevelLabel accepts two or more letters, or a punycode label
func isTopLevelLabel(label string) bool {
	if strings.HasPrefix(strings.ToLower(label), "xn--") {
		return len(label) > len("xn--")
	}
	if len(label) < 2 {
		return false
	}
	for i := 0; i < len(label); i++ {
		if !isLetter(label[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// ValidatePhone accepts an empty phone, a value starting with "+",
// or digits optionally separated by hyphens
func ValidatePhone(s string) error {
	if s == "" || strings.HasPrefix(s, "+") {
		return nil
	}

	digits := strings.ReplaceAll(s, "-", "")
	if digits == "" {
		return newError(ErrInvalidFormat, "phone", s, "invalid phone format")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return newError(ErrInvalidFormat, "phone", s, "invalid phone format")
		}
	}

	return nil
}

// MoneyScale is the number of decimal places kept for money amounts
const MoneyScale = 2

// maxPrice is the first value that no longer fits ten integer digits
var maxPrice = decimal.New(1, 10)

// ValidatePrice requires a strictly positive price with at most MoneyScale
// decimal places that fits the stored precision
func ValidatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return newError(ErrOutOfRange, "price", p.String(), "price must be positive")
	}
	if !p.Equal(p.Truncate(MoneyScale)) {
		return newError(ErrOutOfRange, "price", p.String(), "price must have at most 2 decimal places")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return newError(ErrOutOfRange, "price", p.String(), "price is too large")
	}
	return nil
}

// ValidateStock requires a non-negative stock level
func ValidateStock(n int) error {
	if n < 0 {
		return newError(ErrOutOfRange, "stock", strconv.Itoa(n), "stock cannot be negative")
	}
	return nil
}
