package tools

import (
	"context"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/mark3labs/mcp-go/mcp"
)

// EventTools provides MCP tools for querying and editing events.
type EventTools struct {
	service *venues.Service
}

func NewEventTools(service *venues.Service) *EventTools {
	return &EventTools{service: service}
}

func (t *EventTools) ListEventsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_events",
		Description: "List all events in creation order, scheduled or not.",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}
}

func (t *EventTools) ListEventsHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	list, err := t.service.ListEvents(ctx)
	if err != nil {
		return serviceError("list events", err), nil
	}
	return toolResultJSON(map[string]any{"items": list})
}

func (t *EventTools) GetEventTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_event",
		Description: "Get an event by its ULID.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": idSchema("The ULID of the event")},
			Required:   []string{"id"},
		},
	}
}

func (t *EventTools) GetEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		ID string `json:"id"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	id, bad := requireULID("id", args.ID)
	if bad != nil {
		return bad, nil
	}
	event, err := t.service.GetEvent(ctx, id)
	if err != nil {
		return serviceError("get event", err), nil
	}
	return toolResultJSON(event)
}

func (t *EventTools) DeleteEventTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_event",
		Description: "Delete an unscheduled event. Scheduled events must be unscheduled first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": idSchema("The ULID of the event")},
			Required:   []string{"id"},
		},
	}
}

func (t *EventTools) DeleteEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		ID string `json:"id"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	id, bad := requireULID("id", args.ID)
	if bad != nil {
		return bad, nil
	}
	if err := t.service.DeleteEvent(ctx, id); err != nil {
		return serviceError("delete event", err), nil
	}
	return toolResultJSON(map[string]any{"deleted": id})
}

func (t *EventTools) EditEventTool() mcp.Tool {
	return mcp.Tool{
		Name:        "edit_event",
		Description: "Change an event's name, description, organizer or price. Omitted fields are left as they are. Scheduling status cannot be edited here; use schedule_event or unschedule_event.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":          idSchema("The ULID of the event"),
				"name":        map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"organizer":   map[string]any{"type": "string"},
				"price":       map[string]any{"type": "number"},
			},
			Required: []string{"id"},
		},
	}
}

func (t *EventTools) EditEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		ID string `json:"id"`
		venues.EditEventParams
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	id, bad := requireULID("id", args.ID)
	if bad != nil {
		return bad, nil
	}
	event, err := t.service.EditEvent(ctx, id, args.EditEventParams)
	if err != nil {
		return serviceError("edit event", err), nil
	}
	return toolResultJSON(event)
}

func (t *EventTools) FindEventVenueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_event_venue",
		Description: "Find which venue holds a scheduled event. Fails for unscheduled events.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"event_id": idSchema("The ULID of the event")},
			Required:   []string{"event_id"},
		},
	}
}

func (t *EventTools) FindEventVenueHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		EventID string `json:"event_id"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	eventID, bad := requireULID("event_id", args.EventID)
	if bad != nil {
		return bad, nil
	}
	venueID, err := t.service.FindVenueOfEvent(ctx, eventID)
	if err != nil {
		return serviceError("find venue", err), nil
	}
	return toolResultJSON(map[string]string{"event_id": eventID, "venue_id": venueID})
}
