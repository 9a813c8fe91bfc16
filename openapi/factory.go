package openapi

import (
	"fmt"

	"github.com/rs/zerolog"

	sysdiag "github.com/cqian/sysdiag"
	"github.com/cqian/sysdiag/discovery"
)

// DeployMode names the transport a deployment prefers when an operation
// supports both. The values match the deployment configuration vocabulary.
type DeployMode string

const (
	// DeployFramework prefers the in-cluster service-discovery transport.
	DeployFramework DeployMode = "sysom_framework"
	// DeployCloud prefers the signed public OpenAPI transport.
	DeployCloud DeployMode = "alibabacloud_sdk"
)

// ParseDeployMode validates a configured deploy mode string.
func ParseDeployMode(s string) (DeployMode, error) {
	switch DeployMode(s) {
	case DeployFramework:
		return DeployFramework, nil
	case DeployCloud:
		return DeployCloud, nil
	default:
		return "", fmt.Errorf("unknown deploy mode %q", s)
	}
}

// Factory builds transport clients. Route support modes override the
// deployment default: an operation pinned to one transport always gets
// that transport, and only dual-transport operations consult Default.
type Factory struct {
	Registry *Registry

	// Default decides dual-transport operations and requests that name no
	// operation at all.
	Default DeployMode

	// Framework transport wiring.
	Resolver discovery.Resolver

	// Cloud transport wiring. Endpoint defaults to the regional public
	// endpoint when empty. AssumeRole defaults to the real STS exchange;
	// tests substitute their own.
	Credentials Credentials
	Region      string
	Endpoint    string
	AssumeRole  AssumeRoleFunc

	Logger zerolog.Logger
}

type createConfig struct {
	transport *Transport
	operation string
	uid       string
}

// CreateOption adjusts a single Create call.
type CreateOption func(*createConfig)

// WithMode pins the transport regardless of route support modes.
func WithMode(t Transport) CreateOption {
	return func(c *createConfig) {
		c.transport = &t
	}
}

// ForOperation selects the transport from the named operation's route.
func ForOperation(operation string) CreateOption {
	return func(c *createConfig) {
		c.operation = operation
	}
}

// WithIdentity sets the caller uid stamped on framework calls.
func WithIdentity(uid string) CreateOption {
	return func(c *createConfig) {
		c.uid = uid
	}
}

// Create builds a client for one invocation context. Credential
// resolution happens here: a role-assumption descriptor is exchanged for
// an STS token before the cloud backend ever sees it, so backends only
// deal in resolved credentials.
func (f *Factory) Create(opts ...CreateOption) (Client, error) {
	var cfg createConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	transport, err := f.pick(cfg)
	if err != nil {
		return nil, err
	}

	switch transport {
	case TransportFramework:
		return f.framework(cfg)
	case TransportCloud:
		return f.cloud()
	default:
		return nil, fmt.Errorf("unknown transport %d", transport)
	}
}

// pick resolves the transport for a create request. Pinned transports
// win; otherwise the operation's support mode decides, with ModeBoth and
// unregistered operations falling to the deployment default.
func (f *Factory) pick(cfg createConfig) (Transport, error) {
	if cfg.transport != nil {
		return *cfg.transport, nil
	}

	fallback := TransportCloud
	if f.Default == DeployFramework {
		fallback = TransportFramework
	}

	if cfg.operation == "" {
		return fallback, nil
	}
	route, ok := f.Registry.Resolve(cfg.operation)
	if !ok {
		// Routes register lazily; an unknown name dispatches on the
		// deployment default and fails at call time if it never appears.
		return fallback, nil
	}

	switch route.Mode {
	case ModeFramework:
		return TransportFramework, nil
	case ModeCloud:
		return TransportCloud, nil
	default:
		if fallback == TransportFramework && route.Framework == nil {
			return 0, &sysdiag.RouteError{Operation: cfg.operation, Transport: TransportFramework.String()}
		}
		if fallback == TransportCloud && route.Cloud == nil {
			return 0, &sysdiag.RouteError{Operation: cfg.operation, Transport: TransportCloud.String()}
		}
		return fallback, nil
	}
}

func (f *Factory) framework(cfg createConfig) (Client, error) {
	if f.Resolver == nil {
		return nil, fmt.Errorf("framework transport requires a service resolver")
	}
	if cfg.uid == "" {
		return nil, &sysdiag.CredentialError{Reason: "framework transport requires a caller uid"}
	}
	return NewFrameworkClient(f.Registry, f.Resolver, cfg.uid, WithFrameworkLogger(f.Logger)), nil
}

func (f *Factory) cloud() (Client, error) {
	creds := f.Credentials
	if creds.Mode == ModeRAMRole {
		assume := f.AssumeRole
		if assume == nil {
			assume = AssumeRole
		}
		resolved, err := assume(creds, f.Region)
		if err != nil {
			return nil, err
		}
		creds = resolved
	}

	endpoint := f.Endpoint
	if endpoint == "" {
		endpoint = CloudEndpoint(f.Region)
	}
	return NewCloudClient(f.Registry, creds, endpoint, WithCloudLogger(f.Logger))
}

// CloudEndpoint returns the regional public OpenAPI endpoint.
func CloudEndpoint(region string) string {
	if region == "" {
		return "sysom.aliyuncs.com"
	}
	return "sysom." + region + ".aliyuncs.com"
}
