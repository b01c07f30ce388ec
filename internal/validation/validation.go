// Package validation provides input validation helpers for the AML API.
package validation

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20 // 1MB

// ethAddressRegex validates Ethereum addresses
var ethAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidEthAddress checks if a string is a valid Ethereum address
func IsValidEthAddress(addr string) bool {
	return ethAddressRegex.MatchString(addr)
}

// SanitizeAddress normalizes an address for the heuristics: lowercased,
// trimmed, 0x prefix added when a bare 40-hex string is given. Malformed
// addresses pass through unchanged; the heuristics score them, they are not
// rejected.
func SanitizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.ToLower(addr)

	if !strings.HasPrefix(addr, "0x") && len(addr) == 40 {
		addr = "0x" + addr
	}

	return addr
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Field + ": " + e[0].Message
}

// Validate validates a request and returns errors
func Validate(validators ...func() *ValidationError) ValidationErrors {
	var errors ValidationErrors
	for _, v := range validators {
		if err := v(); err != nil {
			errors = append(errors, *err)
		}
	}
	return errors
}

// Required checks if a field is non-empty
func Required(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// Positive checks that a numeric field is greater than zero
func Positive(field string, value float64) func() *ValidationError {
	return func() *ValidationError {
		if value <= 0 {
			return &ValidationError{Field: field, Message: "must be greater than zero"}
		}
		return nil
	}
}

// NonNegative checks that a numeric field is zero or greater
func NonNegative(field string, value float64) func() *ValidationError {
	return func() *ValidationError {
		if value < 0 {
			return &ValidationError{Field: field, Message: "must not be negative"}
		}
		return nil
	}
}

// HourInRange checks that an hour value is a valid hour of day
func HourInRange(field string, value *float64) func() *ValidationError {
	return func() *ValidationError {
		if value == nil {
			return nil
		}
		if *value < 0 || *value > 23 {
			return &ValidationError{Field: field, Message: "must be between 0 and 23"}
		}
		return nil
	}
}
