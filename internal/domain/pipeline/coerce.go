package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts a raw stat cell to a number.
// Thousands separators are stripped from num_games. "-" and empty cells are 0.
func Coerce(playerID int, column, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if column == "num_games" {
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &SchemaViolationError{PlayerID: playerID, Column: column, Value: raw}
	}
	return d, nil
}
