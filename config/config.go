// Package config loads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/cqian/sysdiag/discovery"
	"github.com/cqian/sysdiag/openapi"
)

// Config is the full runtime configuration. Every field maps to an
// environment variable with no prefix; see the split tags.
type Config struct {
	// DeployMode picks the transport for dual-transport operations:
	// "sysom_framework" or "alibabacloud_sdk".
	DeployMode string `envconfig:"DEPLOY_MODE" default:"alibabacloud_sdk"`

	// OpenAPIType selects the credential mode for the cloud transport:
	// access_key, sts, or ram_role.
	OpenAPIType     string `envconfig:"OPENAPI_TYPE" default:"access_key"`
	AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
	AccessKeySecret string `envconfig:"ACCESS_KEY_SECRET"`
	SecurityToken   string `envconfig:"SECURITY_TOKEN"`
	RoleARN         string `envconfig:"ROLE_ARN"`
	RoleSessionName string `envconfig:"ROLE_SESSION_NAME"`

	Region   string `envconfig:"REGION" default:"cn-hangzhou"`
	Endpoint string `envconfig:"ENDPOINT"`

	// CallerUID identifies the tenant on framework calls.
	CallerUID string `envconfig:"CALLER_UID"`

	// FrameworkEndpoints seeds the static service resolver, formatted as
	// "svc=host:port,host:port;svc2=host:port".
	FrameworkEndpoints string `envconfig:"FRAMEWORK_ENDPOINTS"`

	DiagnoseTimeout time.Duration `envconfig:"DIAGNOSE_TIMEOUT" default:"150s"`
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the optional .env file and then the environment. A missing
// .env file is not an error; a malformed environment value is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// Credentials maps the configured credential mode and secrets into a
// credential context for the client factory.
func (c *Config) Credentials() (openapi.Credentials, error) {
	creds := openapi.Credentials{
		AccessKeyID:     c.AccessKeyID,
		AccessKeySecret: c.AccessKeySecret,
		SecurityToken:   c.SecurityToken,
		RoleARN:         c.RoleARN,
		RoleSessionName: c.RoleSessionName,
	}
	switch c.OpenAPIType {
	case "access_key":
		creds.Mode = openapi.ModeAccessKey
	case "sts":
		creds.Mode = openapi.ModeSTS
	case "ram_role":
		creds.Mode = openapi.ModeRAMRole
	default:
		return openapi.Credentials{}, fmt.Errorf("unknown OPENAPI_TYPE %q", c.OpenAPIType)
	}
	return creds, nil
}

// DeployModeValue parses the configured deploy mode.
func (c *Config) DeployModeValue() (openapi.DeployMode, error) {
	return openapi.ParseDeployMode(c.DeployMode)
}

// Resolver builds the static service resolver from FrameworkEndpoints.
func (c *Config) Resolver() (discovery.Resolver, error) {
	resolver, err := discovery.ParseEndpoints(c.FrameworkEndpoints)
	if err != nil {
		return nil, fmt.Errorf("parse FRAMEWORK_ENDPOINTS: %w", err)
	}
	return resolver, nil
}

// Factory assembles the client factory for this configuration.
func (c *Config) Factory(registry *openapi.Registry, log zerolog.Logger) (*openapi.Factory, error) {
	mode, err := c.DeployModeValue()
	if err != nil {
		return nil, err
	}
	creds, err := c.Credentials()
	if err != nil {
		return nil, err
	}
	resolver, err := c.Resolver()
	if err != nil {
		return nil, err
	}

	return &openapi.Factory{
		Registry:    registry,
		Default:     mode,
		Resolver:    resolver,
		Credentials: creds,
		Region:      c.Region,
		Endpoint:    c.Endpoint,
		Logger:      log,
	}, nil
}

// Validate checks that the configuration can actually serve: the deploy
// mode parses, and whichever transport it selects has its inputs.
func (c *Config) Validate() error {
	mode, err := c.DeployModeValue()
	if err != nil {
		return err
	}
	creds, err := c.Credentials()
	if err != nil {
		return err
	}

	if mode == openapi.DeployFramework {
		if c.CallerUID == "" {
			return fmt.Errorf("deploy mode %s requires CALLER_UID", c.DeployMode)
		}
		if c.FrameworkEndpoints == "" {
			return fmt.Errorf("deploy mode %s requires FRAMEWORK_ENDPOINTS", c.DeployMode)
		}
		return nil
	}
	return creds.Validate()
}
