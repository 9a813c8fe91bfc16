package openapi

import (
	openapisdk "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	sts "github.com/alibabacloud-go/sts-20150401/v2/client"
	"github.com/alibabacloud-go/tea/tea"

	sysdiag "github.com/cqian/sysdiag"
)

// CredentialMode declares how a Credentials value authenticates.
type CredentialMode int

const (
	// ModeAccessKey is a long-lived static access-key pair.
	ModeAccessKey CredentialMode = iota
	// ModeSTS is an access-key pair plus a short-lived security token.
	ModeSTS
	// ModeRAMRole is a role-assumption descriptor: base credentials plus a
	// target role. It must be exchanged for an STS token before signing
	// anything; backends refuse to use it directly.
	ModeRAMRole
)

func (m CredentialMode) String() string {
	switch m {
	case ModeAccessKey:
		return "access_key"
	case ModeSTS:
		return "sts"
	case ModeRAMRole:
		return "ram_role"
	default:
		return "unknown"
	}
}

// DefaultRoleSessionName is the session name stamped on assumed-role
// tokens when the configuration does not override it.
const DefaultRoleSessionName = "sysdiag-mcp"

// DefaultRoleDurationSeconds is the assumed-role token lifetime.
const DefaultRoleDurationSeconds = 3600

// Credentials is the credential context handed to the client factory.
type Credentials struct {
	Mode            CredentialMode
	AccessKeyID     string
	AccessKeySecret string
	SecurityToken   string

	// Role-assumption descriptor, meaningful only in ModeRAMRole.
	RoleARN         string
	RoleSessionName string
	DurationSeconds int64
}

// Validate checks the fields the mode requires.
func (c Credentials) Validate() error {
	if c.AccessKeyID == "" {
		return &sysdiag.CredentialError{Reason: "access key id is empty"}
	}
	if c.AccessKeySecret == "" {
		return &sysdiag.CredentialError{Reason: "access key secret is empty"}
	}
	switch c.Mode {
	case ModeAccessKey:
		return nil
	case ModeSTS:
		if c.SecurityToken == "" {
			return &sysdiag.CredentialError{Reason: "sts mode requires a security token"}
		}
		return nil
	case ModeRAMRole:
		if c.RoleARN == "" {
			return &sysdiag.CredentialError{Reason: "ram_role mode requires a role arn"}
		}
		return nil
	default:
		return &sysdiag.CredentialError{Reason: "unknown credential mode"}
	}
}

// AssumeRoleFunc exchanges a role-assumption descriptor for STS-mode
// credentials. The production implementation talks to the STS service;
// tests substitute their own.
type AssumeRoleFunc func(base Credentials, region string) (Credentials, error)

// AssumeRole performs the STS AssumeRole exchange. The returned value is
// always in ModeSTS; it replaces the descriptor for the lifetime of the
// client built from it. There is no automatic refresh; construct a new
// client after the token expires.
func AssumeRole(base Credentials, region string) (Credentials, error) {
	if err := base.Validate(); err != nil {
		return Credentials{}, err
	}

	session := base.RoleSessionName
	if session == "" {
		session = DefaultRoleSessionName
	}
	duration := base.DurationSeconds
	if duration <= 0 {
		duration = DefaultRoleDurationSeconds
	}

	cfg := &openapisdk.Config{
		AccessKeyId:     tea.String(base.AccessKeyID),
		AccessKeySecret: tea.String(base.AccessKeySecret),
		Endpoint:        tea.String(stsEndpoint(region)),
	}
	client, err := sts.NewClient(cfg)
	if err != nil {
		return Credentials{}, &sysdiag.CredentialError{Reason: "build sts client", Err: err}
	}

	resp, err := client.AssumeRole(&sts.AssumeRoleRequest{
		RoleArn:         tea.String(base.RoleARN),
		RoleSessionName: tea.String(session),
		DurationSeconds: tea.Int64(duration),
	})
	if err != nil {
		return Credentials{}, &sysdiag.CredentialError{Reason: "assume role " + base.RoleARN, Err: err}
	}
	if resp == nil || resp.Body == nil || resp.Body.Credentials == nil {
		return Credentials{}, &sysdiag.CredentialError{Reason: "assume role returned no credentials"}
	}

	creds := resp.Body.Credentials
	return Credentials{
		Mode:            ModeSTS,
		AccessKeyID:     tea.StringValue(creds.AccessKeyId),
		AccessKeySecret: tea.StringValue(creds.AccessKeySecret),
		SecurityToken:   tea.StringValue(creds.SecurityToken),
	}, nil
}

func stsEndpoint(region string) string {
	if region == "" {
		return "sts.aliyuncs.com"
	}
	return "sts." + region + ".aliyuncs.com"
}
