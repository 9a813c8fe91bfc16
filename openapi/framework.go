package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sysdiag "github.com/cqian/sysdiag"
	"github.com/cqian/sysdiag/discovery"
)

const (
	headerCallerType = "x-acs-caller-type"
	headerCallerUID  = "x-acs-caller-uid"
	headerRequestID  = "x-request-id"

	callerTypeCustomer = "customer"
)

// defaultHTTPTimeout bounds a single framework call; the orchestrator's
// deadline governs the overall diagnosis.
const defaultHTTPTimeout = 130 * time.Second

// FrameworkClient invokes operations through in-cluster service discovery:
// it resolves a healthy peer for the binding's service name and performs a
// plain HTTP call carrying the caller identity headers.
type FrameworkClient struct {
	registry *Registry
	resolver discovery.Resolver
	uid      string
	http     *http.Client
	log      zerolog.Logger
}

// FrameworkOption configures a FrameworkClient.
type FrameworkOption func(*FrameworkClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) FrameworkOption {
	return func(c *FrameworkClient) {
		c.http = hc
	}
}

// WithFrameworkLogger sets the client logger.
func WithFrameworkLogger(log zerolog.Logger) FrameworkOption {
	return func(c *FrameworkClient) {
		c.log = log
	}
}

// NewFrameworkClient creates a framework backend bound to a caller uid.
func NewFrameworkClient(registry *Registry, resolver discovery.Resolver, uid string, opts ...FrameworkOption) *FrameworkClient {
	c := &FrameworkClient{
		registry: registry,
		resolver: resolver,
		uid:      uid,
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport reports TransportFramework.
func (c *FrameworkClient) Transport() Transport { return TransportFramework }

// Invoke performs one framework call. The request must be a loosely-typed
// map (or nil); structured SDK requests belong to the cloud transport and
// are rejected rather than coerced.
func (c *FrameworkClient) Invoke(ctx context.Context, operation string, req any) (any, error) {
	params, err := frameworkParams(operation, req)
	if err != nil {
		return nil, err
	}

	binding, ok := c.registry.Framework(operation)
	if !ok {
		return nil, &sysdiag.RouteError{Operation: operation, Transport: TransportFramework.String()}
	}

	instances, err := c.resolver.Resolve(ctx, binding.Service)
	if err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: fmt.Errorf("resolve service %q: %w", binding.Service, err)}
	}
	instance, ok := discovery.Pick(instances)
	if !ok {
		return nil, &sysdiag.TransportError{Operation: operation, Err: fmt.Errorf("no healthy instance for service %q", binding.Service)}
	}

	httpReq, err := c.buildRequest(ctx, binding, instance, params)
	if err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: err}
	}

	c.log.Debug().
		Str("operation", operation).
		Str("method", binding.Method).
		Str("addr", instance.Addr()).
		Str("path", binding.Path).
		Msg("framework call")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &sysdiag.TransportError{Operation: operation, Status: resp.StatusCode, Body: string(body)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &sysdiag.TransportError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return decoded, nil
}

func (c *FrameworkClient) buildRequest(ctx context.Context, binding *FrameworkBinding, instance discovery.Instance, params map[string]any) (*http.Request, error) {
	target := url.URL{Scheme: "http", Host: instance.Addr(), Path: binding.Path}

	var httpReq *http.Request
	var err error
	if binding.Method == http.MethodGet {
		query := target.Query()
		for key, value := range params {
			query.Set(key, fmt.Sprint(value))
		}
		target.RawQuery = query.Encode()
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	} else {
		var payload []byte
		payload, err = json.Marshal(params)
		if err != nil {
			return nil, err
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
		if httpReq != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set(headerCallerType, callerTypeCustomer)
	httpReq.Header.Set(headerCallerUID, c.uid)
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	return httpReq, nil
}

// frameworkParams validates the loosely-typed request shape.
func frameworkParams(operation string, req any) (map[string]any, error) {
	switch v := req.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, &sysdiag.RequestTypeError{
			Operation: operation,
			Want:      "map[string]any",
			Got:       fmt.Sprintf("%T", req),
		}
	}
}
