// Package sysdiag provides an MCP server that exposes system diagnostics
// (memory, IO, network, scheduler, kernel crash, asset inventory) backed by
// a remote diagnostic OpenAPI platform.
//
// The library is organized around a small dispatch runtime:
//
//   - [github.com/cqian/sysdiag/openapi]: the route registry, the two
//     transport backends (service-discovery framework calls and signed
//     cloud SDK calls), and the client factory that selects between them
//     and resolves credentials.
//   - [github.com/cqian/sysdiag/diag]: the submit-then-poll orchestrator
//     every long-running diagnosis goes through.
//   - [github.com/cqian/sysdiag/tools]: the MCP tool adapters, one per
//     diagnostic capability.
//   - [github.com/cqian/sysdiag/mcpserver]: glue that serves a tool
//     registry over MCP stdio or SSE.
//
// This root package holds the error vocabulary shared by those layers.
//
// # Basic Usage
//
// Build a factory from configuration and run one diagnosis:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := openapi.NewRegistry()
//	factory, err := cfg.Factory(registry, zerolog.Nop())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := factory.Create(
//	    openapi.ForOperation(openapi.OpInvokeDiagnosis),
//	    openapi.WithIdentity("123456789"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	orch := diag.NewOrchestrator(client, registry)
//	res := orch.Execute(ctx, diag.Request{
//	    ServiceName: "memgraph",
//	    Channel:     "ecs",
//	    Region:      "cn-hangzhou",
//	    Params:      map[string]any{"instance": "i-bp148hw2bn8rktm8u1a7"},
//	})
//	fmt.Println(res.Code, res.TaskID)
//
// # Error Handling
//
// Backends never panic across the package boundary. Recoverable conditions
// come back as typed errors from this package, which callers discriminate
// with [errors.As]:
//
//	_, err := client.Invoke(ctx, "unknown_op", nil)
//	var re *sysdiag.RouteError
//	if errors.As(err, &re) {
//	    // unknown operation or unsupported transport
//	}
package sysdiag
