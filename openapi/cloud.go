package openapi

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	sysdiag "github.com/cqian/sysdiag"
)

// CloudClient invokes operations through signed calls against the public
// OpenAPI endpoint. The underlying SDK connection is dialed lazily on
// first use and cached for the client's lifetime; credential resolution
// is deferred until a call actually needs it.
type CloudClient struct {
	registry *Registry
	creds    Credentials
	endpoint string
	dial     func(Credentials, string) (*Conn, error)
	log      zerolog.Logger

	// Lazy connection state. conn is nil until the first successful dial;
	// a failed dial is reported to the caller and retried on the next
	// invocation rather than cached.
	mu   sync.Mutex
	conn *Conn
}

// CloudOption configures a CloudClient.
type CloudOption func(*CloudClient)

// WithCloudLogger sets the client logger.
func WithCloudLogger(log zerolog.Logger) CloudOption {
	return func(c *CloudClient) {
		c.log = log
	}
}

// withDialer overrides the SDK dialer. Test seam.
func withDialer(dial func(Credentials, string) (*Conn, error)) CloudOption {
	return func(c *CloudClient) {
		c.dial = dial
	}
}

// NewCloudClient creates a cloud backend for resolved credentials.
// Role-assumption descriptors are rejected: the factory must exchange
// them for an STS token first, and the exchange is not this layer's job.
func NewCloudClient(registry *Registry, creds Credentials, endpoint string, opts ...CloudOption) (*CloudClient, error) {
	if creds.Mode == ModeRAMRole {
		return nil, &sysdiag.CredentialError{Reason: "role-assumption credentials must be resolved to STS before constructing a cloud client"}
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	c := &CloudClient{
		registry: registry,
		creds:    creds,
		endpoint: endpoint,
		dial:     dialConn,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transport reports TransportCloud.
func (c *CloudClient) Transport() Transport { return TransportCloud }

// Invoke performs one signed call. The request must be the exact concrete
// type declared by the operation's cloud binding; mismatches are caller
// errors, not coercion candidates. Every fault below this line, including
// SDK errors and panics inside generated code, is collapsed into the typed
// error vocabulary.
func (c *CloudClient) Invoke(ctx context.Context, operation string, req any) (payload any, err error) {
	binding, ok := c.registry.Cloud(operation)
	if !ok {
		return nil, &sysdiag.RouteError{Operation: operation, Transport: TransportCloud.String()}
	}

	if req == nil {
		return nil, &sysdiag.RequestTypeError{
			Operation: operation,
			Want:      binding.RequestType.String(),
			Got:       "nil",
		}
	}
	if got := reflect.TypeOf(req); got != binding.RequestType {
		return nil, &sysdiag.RequestTypeError{
			Operation: operation,
			Want:      binding.RequestType.String(),
			Got:       got.String(),
		}
	}

	conn, err := c.connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = &sysdiag.TransportError{Operation: operation, Err: fmt.Errorf("panic during call: %v", r)}
		}
	}()

	c.log.Debug().Str("operation", operation).Msg("cloud call")

	raw, err := binding.Invoke(ctx, conn, req)
	if err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: err}
	}

	if raw.StatusCode == http.StatusOK {
		return raw.Body, nil
	}

	code, message := remoteFailure(raw.Body)
	return nil, &sysdiag.RemoteError{Operation: operation, Code: code, Message: message}
}

// connect returns the cached connection, dialing it exactly once on the
// first successful call.
func (c *CloudClient) connect() (*Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := c.dial(c.creds, c.endpoint)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

// remoteFailure extracts the remote error code and message from a failed
// response body, tolerating both snake_case and CamelCase envelopes.
func remoteFailure(body any) (code, message string) {
	code, message = "Unknown", "unknown error"
	m, ok := body.(map[string]any)
	if !ok {
		if body != nil {
			message = fmt.Sprint(body)
		}
		return code, message
	}
	for _, key := range []string{"code", "Code"} {
		if v, ok := m[key].(string); ok && v != "" {
			code = v
			break
		}
	}
	for _, key := range []string{"message", "Message"} {
		if v, ok := m[key].(string); ok && v != "" {
			message = v
			break
		}
	}
	return code, message
}
