package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// parseMoney turns a decimal string into the float64 the domain works with.
// Parsing through decimal rejects the garbage float64 would silently accept.
func parseMoney(field, value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	f, _ := d.Float64()
	return f, nil
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
