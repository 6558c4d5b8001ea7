package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Togather-Foundation/venues/internal/domain/ids"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/mark3labs/mcp-go/mcp"
)

// bindArguments decodes the tool call arguments into dst.
func bindArguments(request mcp.CallToolRequest, dst any) error {
	if request.Params.Arguments == nil {
		return nil
	}
	data, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// requireULID validates a required id argument and returns it normalized.
func requireULID(name, value string) (string, *mcp.CallToolResult) {
	if strings.TrimSpace(value) == "" {
		return "", mcp.NewToolResultErrorf("%s parameter is required", name)
	}
	if err := ids.ValidateULID(value); err != nil {
		return "", mcp.NewToolResultErrorFromErr("invalid ULID format for "+name, err)
	}
	return ids.Normalize(value), nil
}

// toolResultJSON converts a payload to an MCP tool result with JSON content.
// Returns a tool error result if the conversion fails.
func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	resultJSON, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to build response", err), nil
	}
	return resultJSON, nil
}

// serviceError renders an engine failure as a tool error. Domain failures
// carry their stable code so agents can branch on it.
func serviceError(action string, err error) *mcp.CallToolResult {
	var validationErr venues.ValidationError
	if errors.As(err, &validationErr) {
		return mcp.NewToolResultError(validationErr.Error())
	}
	var engineErr *venues.Error
	if errors.As(err, &engineErr) && !errors.Is(err, venues.ErrInternal) {
		return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", engineErr.Error(), engineErr.Code))
	}
	return mcp.NewToolResultErrorFromErr("failed to "+action, err)
}

func notConfigured() *mcp.CallToolResult {
	return mcp.NewToolResultError("venues service not configured")
}

func idSchema(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}
