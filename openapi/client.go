package openapi

import "context"

// Transport identifies which backend implementation a Client is.
type Transport int

const (
	// TransportFramework is the service-discovery HTTP backend.
	TransportFramework Transport = iota
	// TransportCloud is the signed cloud SDK backend.
	TransportCloud
)

func (t Transport) String() string {
	switch t {
	case TransportFramework:
		return "framework"
	case TransportCloud:
		return "cloud"
	default:
		return "unknown"
	}
}

// Client invokes named remote operations. Both transport backends satisfy
// it; which request shape Invoke accepts depends on the transport:
//
//   - [TransportFramework] requires a map[string]any (or nil);
//   - [TransportCloud] requires the concrete request type declared by the
//     operation's cloud binding.
//
// Recoverable conditions (unknown routes, bad request shapes, non-200
// statuses, remote rejections) come back as the typed errors of the root
// sysdiag package, never as panics.
type Client interface {
	Invoke(ctx context.Context, operation string, req any) (any, error)
	Transport() Transport
}
