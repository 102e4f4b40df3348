package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds an MCP server publishing every registry tool, bound to
// the given service. Tool input and output schemas are derived from the
// typed argument and result structs.
func NewMCPServer(svc *Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "openalex-explorer",
		Title:   "OpenAlex Explorer",
		Version: version,
	}, nil)

	searchPapers, _ := Lookup(ToolSearchPapers)
	mcp.AddTool(server, &mcp.Tool{
		Name:        searchPapers.Name,
		Description: searchPapers.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchPapersArgs) (*mcp.CallToolResult, SearchPapersResult, error) {
		out, err := svc.SearchPapers(ctx, args)
		return nil, out, err
	})

	getByDOI, _ := Lookup(ToolGetByDOI)
	mcp.AddTool(server, &mcp.Tool{
		Name:        getByDOI.Name,
		Description: getByDOI.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetByDOIArgs) (*mcp.CallToolResult, GetByDOIResult, error) {
		out, err := svc.GetByDOI(ctx, args)
		return nil, out, err
	})

	searchAuthors, _ := Lookup(ToolSearchAuthors)
	mcp.AddTool(server, &mcp.Tool{
		Name:        searchAuthors.Name,
		Description: searchAuthors.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchAuthorsArgs) (*mcp.CallToolResult, SearchAuthorsResult, error) {
		out, err := svc.SearchAuthors(ctx, args)
		return nil, out, err
	})

	searchConcepts, _ := Lookup(ToolSearchConcepts)
	mcp.AddTool(server, &mcp.Tool{
		Name:        searchConcepts.Name,
		Description: searchConcepts.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchConceptsArgs) (*mcp.CallToolResult, SearchConceptsResult, error) {
		out, err := svc.SearchConcepts(ctx, args)
		return nil, out, err
	})

	return server
}
