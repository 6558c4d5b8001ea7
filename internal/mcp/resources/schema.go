package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	schemaMIMEType     = "application/json"
	openAPIResource    = "schema://openapi"
	serverInfoResource = "info://server"
)

type ServerCapabilities struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
}

type ServerInfo struct {
	Name         string             `json:"name"`
	Version      string             `json:"version,omitempty"`
	Capabilities ServerCapabilities `json:"capabilities"`
	Transport    string             `json:"transport,omitempty"`
	// VenueCapacity is the most events a venue can hold.
	VenueCapacity int `json:"venue_capacity"`
}

// SchemaResources serves the API description and server metadata.
type SchemaResources struct {
	loadOpenAPI func() ([]byte, error)
	info        ServerInfo
}

// NewSchemaResources creates a schema resources handler. loadOpenAPI returns
// the OpenAPI document as JSON.
func NewSchemaResources(loadOpenAPI func() ([]byte, error), info ServerInfo) *SchemaResources {
	return &SchemaResources{loadOpenAPI: loadOpenAPI, info: info}
}

func (r *SchemaResources) OpenAPIResource() mcp.Resource {
	return mcp.NewResource(
		openAPIResource,
		"OpenAPI Schema",
		mcp.WithResourceDescription("OpenAPI specification for the venues API"),
		mcp.WithMIMEType(schemaMIMEType),
	)
}

func (r *SchemaResources) InfoResource() mcp.Resource {
	return mcp.NewResource(
		serverInfoResource,
		"Server Info",
		mcp.WithResourceDescription("MCP server metadata and capabilities"),
		mcp.WithMIMEType(schemaMIMEType),
	)
}

func (r *SchemaResources) OpenAPIReadHandler(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if r.loadOpenAPI == nil {
		return nil, fmt.Errorf("load openapi: no document configured")
	}
	doc, err := r.loadOpenAPI()
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	return textContents(request, openAPIResource, string(doc)), nil
}

func (r *SchemaResources) InfoReadHandler(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(r.info)
	if err != nil {
		return nil, fmt.Errorf("load server info: %w", err)
	}
	return textContents(request, serverInfoResource, string(data)), nil
}

// textContents answers with the requested URI when the client sent one.
func textContents(request mcp.ReadResourceRequest, defaultURI, text string) []mcp.ResourceContents {
	uri := defaultURI
	if request.Params.URI != "" {
		uri = request.Params.URI
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: schemaMIMEType,
			Text:     text,
		},
	}
}
