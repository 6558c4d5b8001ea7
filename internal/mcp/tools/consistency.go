package tools

import (
	"context"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/mark3labs/mcp-go/mcp"
)

type ConsistencyTools struct {
	service *venues.Service
}

func NewConsistencyTools(service *venues.Service) *ConsistencyTools {
	return &ConsistencyTools{service: service}
}

func (t *ConsistencyTools) CheckConsistencyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "check_consistency",
		Description: "Audit every venue and event for broken invariants (over-capacity venues, events held twice, scheduled events no venue holds). Read-only.",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}
}

func (t *ConsistencyTools) CheckConsistencyHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	report, err := t.service.Audit(ctx)
	if err != nil {
		return serviceError("audit", err), nil
	}
	return toolResultJSON(map[string]any{
		"healthy":    report.Healthy(),
		"venues":     report.Venues,
		"events":     report.Events,
		"violations": report.Violations,
	})
}
