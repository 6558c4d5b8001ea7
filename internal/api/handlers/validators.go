package handlers

import (
	"net/http"
	"strings"

	"github.com/Togather-Foundation/venues/internal/api/problem"
	"github.com/Togather-Foundation/venues/internal/domain/ids"
)

// FilterError represents a validation error for a specific field.
type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateAndExtractULID extracts and validates a ULID from a request path parameter.
// Returns the normalized ULID and true if valid.
// If invalid, writes an appropriate error response and returns empty string and false.
func ValidateAndExtractULID(w http.ResponseWriter, r *http.Request, paramName, env string) (string, bool) {
	id, err := ValidateULIDParam(r, paramName)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidID, "Invalid identifier", err, env,
			problem.WithErrors(map[string]any{paramName: err.(FilterError).Message}))
		return "", false
	}
	return id, true
}

// ValidateULIDParam validates a ULID path parameter without automatic error writing.
func ValidateULIDParam(r *http.Request, paramName string) (string, error) {
	value := strings.TrimSpace(pathParam(r, paramName))
	if value == "" {
		return "", FilterError{Field: paramName, Message: "missing"}
	}
	if err := ids.ValidateULID(value); err != nil {
		return "", FilterError{Field: paramName, Message: "invalid ULID"}
	}
	return ids.Normalize(value), nil
}
