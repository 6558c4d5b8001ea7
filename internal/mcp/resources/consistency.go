package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/mark3labs/mcp-go/mcp"
)

const consistencyResource = "report://consistency"

// ConsistencyResources exposes a live audit of the venue and event tables.
type ConsistencyResources struct {
	service *venues.Service
}

func NewConsistencyResources(service *venues.Service) *ConsistencyResources {
	return &ConsistencyResources{service: service}
}

func (r *ConsistencyResources) ReportResource() mcp.Resource {
	return mcp.NewResource(
		consistencyResource,
		"Consistency Report",
		mcp.WithResourceDescription("Result of a full venue/event invariant check, computed on read"),
		mcp.WithMIMEType(schemaMIMEType),
	)
}

func (r *ConsistencyResources) ReportReadHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if r.service == nil {
		return nil, fmt.Errorf("venues service not configured")
	}
	report, err := r.service.Audit(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return textContents(request, consistencyResource, string(data)), nil
}
