package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/nhle/bujo/internal/collections"
	"github.com/nhle/bujo/internal/lifecycle"
)

// NewServer creates an MCP server with every journal tool registered, bound
// to userID.
func NewServer(engine *lifecycle.Engine, coll *collections.Service, userID, version string) *server.MCPServer {
	h := NewHandlers(engine, coll, userID)

	s := server.NewMCPServer(
		"bujo",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	// Entries
	s.AddTool(createEntryTool(), h.HandleCreateEntry)
	s.AddTool(listEntriesTool(), h.HandleListEntries)
	s.AddTool(completeEntryTool(), h.HandleCompleteEntry)
	s.AddTool(cancelEntryTool(), h.HandleCancelEntry)
	s.AddTool(updateEntryTool(), h.HandleUpdateEntry)

	// Planning and migration
	s.AddTool(planToDayTool(), h.HandlePlanToDay)
	s.AddTool(migrateEntryTool(), h.HandleMigrateEntry)
	s.AddTool(migrateToMonthTool(), h.HandleMigrateToMonth)
	s.AddTool(migrateIncompleteTool(), h.HandleMigrateIncomplete)

	// Chains
	s.AddTool(deleteChainTool(), h.HandleDeleteChain)
	s.AddTool(chainResolutionsTool(), h.HandleChainResolutions)

	// Collections
	s.AddTool(listCollectionsTool(), h.HandleListCollections)
	s.AddTool(addCollectionEntryTool(), h.HandleAddCollectionEntry)
	s.AddTool(addActionItemTool(), h.HandleAddActionItem)

	return s
}
