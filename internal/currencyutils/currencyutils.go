// Package currencyutils provides the amount lexing used by the normalizer:
// turning whatever currency notation a user typed ("₹1,234.56", "$ 300",
// "1.234,56") into a plain decimal the rest of the system can trust.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// symbolPattern matches currency symbols, currency codes and whitespace.
// The sign is deliberately not matched: the normalizer reads it as a
// direction signal.
var symbolPattern = regexp.MustCompile(`(?i)[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s]|INR|USD|EUR|GBP|CHF|RS\.?`)

// ParseAmount parses a user-notated amount string into a decimal value,
// preserving its sign. An empty string and anything that still fails to
// parse after standardization return an error.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := Standardize(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}

	return amount, nil
}

// Standardize converts the common currency string notations to a form
// decimal.NewFromString accepts. Handles "₹1,234.56", "€1.234,56",
// "1'234.56", "Rs. 300" and plain numbers. The minus sign survives.
func Standardize(amountStr string) string {
	amountStr = symbolPattern.ReplaceAllString(amountStr, "")

	// Both separators present: the last one is the decimal point.
	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European notation (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Anglo notation (1,234.56)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		// A single comma group of 1-2 trailing digits reads as a decimal
		// separator, anything else as thousands grouping.
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// Apostrophes as thousands separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// FormatAmount renders a decimal with two fixed places and the given
// currency symbol or code. An empty currency yields the bare number.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)

	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "INR":
		return "₹" + formatted
	case "EUR":
		return "€" + formatted
	case "USD":
		return "$" + formatted
	case "GBP":
		return "£" + formatted
	default:
		return currency + " " + formatted
	}
}
