// Package tool defines the diagnostic tool surface exposed to MCP
// clients: a tool is a name, a description, a JSON schema for its
// arguments, and a handler.
//
// Schemas are derived from Go argument structs with [SchemaFor], so the
// struct is the single source of truth for a tool's parameters:
//
//	type memgraphArgs struct {
//	    Instance string `json:"instance" desc:"Target instance IP" required:"true"`
//	    Region   string `json:"region" desc:"Target region" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("memgraph", "Analyze kernel memory usage", memgraphHandler),
//	)
package tool
