package tool

import (
	"context"
	"encoding/json"
)

// Tool describes one callable diagnostic tool.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does and when to use it.
	Description string
	// Schema is a JSON Schema object defining the tool arguments.
	Schema json.RawMessage
}

// Handler executes a tool call. The arguments arrive as the raw JSON
// object sent by the client; the returned string is the tool output.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// TypedHandler executes a tool call with decoded arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Registration pairs a tool definition with its handler for fluent
// registration.
type Registration struct {
	Tool    Tool
	Handler Handler
}

// Func creates a Registration whose schema is generated from the typed
// handler's argument struct. Panics if schema generation fails, which
// only happens for argument types that are not structs.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	schema := MustSchemaFor[T]()
	handler := func(ctx context.Context, args json.RawMessage) (string, error) {
		var decoded T
		if len(args) > 0 {
			if err := json.Unmarshal(args, &decoded); err != nil {
				return "", err
			}
		}
		return fn(ctx, decoded)
	}
	return Registration{
		Tool: Tool{
			Name:        name,
			Description: description,
			Schema:      schema,
		},
		Handler: handler,
	}
}

// WithHandler creates a Registration from a pre-built schema and handler.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: Tool{
			Name:        name,
			Description: description,
			Schema:      schema,
		},
		Handler: h,
	}
}
