package mcp

import (
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/mcp/resources"
	"github.com/Togather-Foundation/venues/internal/mcp/tools"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server around the venues consistency engine. Agents
// get the same operations as the HTTP API, with the same invariants.
type Server struct {
	mcp     *mcpserver.MCPServer
	service *venues.Service
	cfg     Config
}

// Config holds configuration for the MCP server.
type Config struct {
	Name      string
	Version   string
	Transport TransportType
	// OpenAPI returns the API description served as a resource. Optional.
	OpenAPI func() ([]byte, error)
}

// NewServer creates an MCP server exposing venue and event tools plus
// schema and consistency resources.
func NewServer(cfg Config, service *venues.Service) *Server {
	mcpServer := mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Manage venues and the events scheduled in them. A venue holds at most 5 events and an event is in at most one venue."),
	)

	srv := &Server{mcp: mcpServer, service: service, cfg: cfg}
	srv.registerTools()
	srv.registerResources()
	return srv
}

// MCPServer returns the underlying MCP server for use with transports.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) registerTools() {
	venueTools := tools.NewVenueTools(s.service)
	s.mcp.AddTool(venueTools.ListVenuesTool(), venueTools.ListVenuesHandler)
	s.mcp.AddTool(venueTools.GetVenueTool(), venueTools.GetVenueHandler)
	s.mcp.AddTool(venueTools.CreateVenueTool(), venueTools.CreateVenueHandler)
	s.mcp.AddTool(venueTools.RenameVenueTool(), venueTools.RenameVenueHandler)
	s.mcp.AddTool(venueTools.DeleteVenueTool(), venueTools.DeleteVenueHandler)
	s.mcp.AddTool(venueTools.CreateEventTool(), venueTools.CreateEventHandler)
	s.mcp.AddTool(venueTools.ScheduleEventTool(), venueTools.ScheduleEventHandler)
	s.mcp.AddTool(venueTools.UnscheduleEventTool(), venueTools.UnscheduleEventHandler)

	eventTools := tools.NewEventTools(s.service)
	s.mcp.AddTool(eventTools.ListEventsTool(), eventTools.ListEventsHandler)
	s.mcp.AddTool(eventTools.GetEventTool(), eventTools.GetEventHandler)
	s.mcp.AddTool(eventTools.EditEventTool(), eventTools.EditEventHandler)
	s.mcp.AddTool(eventTools.DeleteEventTool(), eventTools.DeleteEventHandler)
	s.mcp.AddTool(eventTools.FindEventVenueTool(), eventTools.FindEventVenueHandler)

	consistencyTools := tools.NewConsistencyTools(s.service)
	s.mcp.AddTool(consistencyTools.CheckConsistencyTool(), consistencyTools.CheckConsistencyHandler)
}

func (s *Server) registerResources() {
	schema := resources.NewSchemaResources(s.cfg.OpenAPI, resources.ServerInfo{
		Name:          s.cfg.Name,
		Version:       s.cfg.Version,
		Capabilities:  resources.ServerCapabilities{Tools: true, Resources: true},
		Transport:     string(s.cfg.Transport),
		VenueCapacity: venues.MaxEventsPerVenue,
	})
	s.mcp.AddResource(schema.InfoResource(), schema.InfoReadHandler)
	if s.cfg.OpenAPI != nil {
		s.mcp.AddResource(schema.OpenAPIResource(), schema.OpenAPIReadHandler)
	}

	consistency := resources.NewConsistencyResources(s.service)
	s.mcp.AddResource(consistency.ReportResource(), consistency.ReportReadHandler)
}
