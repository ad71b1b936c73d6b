package money

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Parse extracts a decimal amount from free-form currency text such as
// "Rs. 1,250.50" or "250". Thousands separators are ignored and the first
// decimal number found wins. Text with no number parses to zero.
func Parse(raw string) decimal.Decimal {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return decimal.Zero
	}
	match := numberPattern.FindString(value)
	if match == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Amount is a decimal that unmarshals from either a JSON number or a
// free-form currency string. Null and unparseable inputs become zero, so
// client-supplied prices never fail a request on format alone.
type Amount struct {
	decimal.Decimal
}

func FromDecimal(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func FromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = Parse(text)
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		a.Decimal = Parse(raw)
		return nil
	}
	a.Decimal = parsed
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.InexactFloat64())
}
