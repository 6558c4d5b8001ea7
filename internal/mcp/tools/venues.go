package tools

import (
	"context"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/mark3labs/mcp-go/mcp"
)

// VenueTools provides MCP tools for venues and their schedules.
type VenueTools struct {
	service *venues.Service
}

func NewVenueTools(service *venues.Service) *VenueTools {
	return &VenueTools{service: service}
}

func (t *VenueTools) ListVenuesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_venues",
		Description: "List all venues in creation order. Each venue lists the ids of the events it holds (at most 5).",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}
}

func (t *VenueTools) ListVenuesHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	list, err := t.service.ListVenues(ctx)
	if err != nil {
		return serviceError("list venues", err), nil
	}
	return toolResultJSON(map[string]any{"items": list})
}

func (t *VenueTools) GetVenueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_venue",
		Description: "Get a venue by its ULID, together with the events it holds in order.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": idSchema("The ULID of the venue")},
			Required:   []string{"id"},
		},
	}
}

func (t *VenueTools) GetVenueHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	venue, err := t.service.GetVenue(ctx, id)
	if err != nil {
		return serviceError("get venue", err), nil
	}
	events, err := t.service.VenueEvents(ctx, id)
	if err != nil {
		return serviceError("get venue events", err), nil
	}
	return toolResultJSON(map[string]any{"venue": venue, "events": events})
}

func (t *VenueTools) CreateVenueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_venue",
		Description: "Create a new, empty venue.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{"type": "string", "description": "Venue name (max 500 characters)"},
			},
			Required: []string{"name"},
		},
	}
}

func (t *VenueTools) CreateVenueHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var params venues.CreateVenueParams
	if err := bindArguments(request, &params); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	venue, err := t.service.CreateVenue(ctx, params)
	if err != nil {
		return serviceError("create venue", err), nil
	}
	return toolResultJSON(venue)
}

func (t *VenueTools) RenameVenueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rename_venue",
		Description: "Rename a venue. The events it holds are unchanged.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":   idSchema("The ULID of the venue"),
				"name": map[string]any{"type": "string", "description": "New venue name (max 500 characters)"},
			},
			Required: []string{"id", "name"},
		},
	}
}

func (t *VenueTools) RenameVenueHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	id, bad := requireULID("id", args.ID)
	if bad != nil {
		return bad, nil
	}
	venue, err := t.service.RenameVenue(ctx, id, venues.RenameVenueParams{Name: args.Name})
	if err != nil {
		return serviceError("rename venue", err), nil
	}
	return toolResultJSON(venue)
}

func (t *VenueTools) DeleteVenueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_venue",
		Description: "Delete an empty venue. Unschedule its events first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": idSchema("The ULID of the venue")},
			Required:   []string{"id"},
		},
	}
}

func (t *VenueTools) DeleteVenueHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	if err := t.service.DeleteVenue(ctx, id); err != nil {
		return serviceError("delete venue", err), nil
	}
	return toolResultJSON(map[string]any{"deleted": id})
}

func (t *VenueTools) CreateEventTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_event",
		Description: "Create an event already scheduled in a venue. Fails when the venue holds 5 events. Supply your own ULID as event_id to make retries safe.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"venue_id":    idSchema("The ULID of the venue"),
				"event_id":    idSchema("Optional caller-chosen ULID for the new event"),
				"name":        map[string]any{"type": "string", "description": "Event name"},
				"description": map[string]any{"type": "string", "description": "Event description (basic HTML allowed)"},
				"organizer":   map[string]any{"type": "string", "description": "Organizer name"},
				"price":       map[string]any{"type": "number", "description": "Ticket price, 0 or more"},
			},
			Required: []string{"venue_id", "name"},
		},
	}
}

func (t *VenueTools) CreateEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		VenueID     string  `json:"venue_id"`
		EventID     string  `json:"event_id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Organizer   string  `json:"organizer"`
		Price       float64 `json:"price"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	venueID, bad := requireULID("venue_id", args.VenueID)
	if bad != nil {
		return bad, nil
	}

	event, err := t.service.CreateEventInVenue(ctx, venueID, venues.CreateEventParams{
		ID:          args.EventID,
		Name:        args.Name,
		Description: args.Description,
		Organizer:   args.Organizer,
		Price:       args.Price,
	})
	if err != nil {
		return serviceError("create event", err), nil
	}
	return toolResultJSON(event)
}

func placementTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"venue_id": idSchema("The ULID of the venue"),
				"event_id": idSchema("The ULID of the event"),
			},
			Required: []string{"venue_id", "event_id"},
		},
	}
}

func (t *VenueTools) ScheduleEventTool() mcp.Tool {
	return placementTool("schedule_event", "Schedule an existing unscheduled event into a venue that has room.")
}

func (t *VenueTools) UnscheduleEventTool() mcp.Tool {
	return placementTool("unschedule_event", "Remove an event from the venue holding it. The event becomes unscheduled and can be scheduled elsewhere.")
}

func (t *VenueTools) ScheduleEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.placement(ctx, request, "schedule event", (*venues.Service).Schedule)
}

func (t *VenueTools) UnscheduleEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.placement(ctx, request, "unschedule event", (*venues.Service).Unschedule)
}

func (t *VenueTools) placement(ctx context.Context, request mcp.CallToolRequest, action string, op func(*venues.Service, context.Context, string, string) (venues.Placement, error)) (*mcp.CallToolResult, error) {
	if t == nil || t.service == nil {
		return notConfigured(), nil
	}
	var args struct {
		VenueID string `json:"venue_id"`
		EventID string `json:"event_id"`
	}
	if err := bindArguments(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	venueID, bad := requireULID("venue_id", args.VenueID)
	if bad != nil {
		return bad, nil
	}
	eventID, bad := requireULID("event_id", args.EventID)
	if bad != nil {
		return bad, nil
	}

	placed, err := op(t.service, ctx, venueID, eventID)
	if err != nil {
		return serviceError(action, err), nil
	}
	return toolResultJSON(placed)
}
