package openapi

import (
	"context"
	"fmt"

	openapisdk "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"

	sysdiag "github.com/cqian/sysdiag"
)

// apiVersion is the remote diagnostic platform's OpenAPI version.
const apiVersion = "2023-12-30"

// connectTimeoutMillis matches the platform's recommended connect timeout.
const connectTimeoutMillis = 2000

// Conn is a live signed connection to the cloud OpenAPI endpoint. It wraps
// the generic SDK client; per-operation bindings drive it through CallRPC.
type Conn struct {
	api *openapisdk.Client
}

// dialConn constructs the signed SDK client for a resolved credential.
// Role-assumption credentials must have been exchanged for an STS token
// before reaching this point.
func dialConn(creds Credentials, endpoint string) (*Conn, error) {
	var credCfg *credential.Config
	switch creds.Mode {
	case ModeAccessKey:
		credCfg = &credential.Config{
			Type:            tea.String("access_key"),
			AccessKeyId:     tea.String(creds.AccessKeyID),
			AccessKeySecret: tea.String(creds.AccessKeySecret),
		}
	case ModeSTS:
		credCfg = &credential.Config{
			Type:            tea.String("sts"),
			AccessKeyId:     tea.String(creds.AccessKeyID),
			AccessKeySecret: tea.String(creds.AccessKeySecret),
			SecurityToken:   tea.String(creds.SecurityToken),
		}
	default:
		return nil, &sysdiag.CredentialError{Reason: fmt.Sprintf("cannot dial with credential mode %s", creds.Mode)}
	}

	cred, err := credential.NewCredential(credCfg)
	if err != nil {
		return nil, &sysdiag.CredentialError{Reason: "build credential client", Err: err}
	}

	cfg := &openapisdk.Config{
		Credential:     cred,
		Endpoint:       tea.String(endpoint),
		ConnectTimeout: tea.Int(connectTimeoutMillis),
	}
	api, err := openapisdk.NewClient(cfg)
	if err != nil {
		return nil, &sysdiag.CredentialError{Reason: "build openapi client", Err: err}
	}
	return &Conn{api: api}, nil
}

// CallRPC performs one RPC-style signed call and returns the HTTP status
// with the decoded response body. The SDK call itself is synchronous; the
// context is honored at entry so abandoned invocations do not start a new
// network exchange.
func (c *Conn) CallRPC(ctx context.Context, action, method string, query map[string]any) (*RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapisdk.Params{
		Action:      tea.String(action),
		Version:     tea.String(apiVersion),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String(method),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("formData"),
		BodyType:    tea.String("json"),
	}
	request := &openapisdk.OpenApiRequest{Query: openapiutil.Query(query)}
	runtime := &util.RuntimeOptions{}

	resp, err := c.api.CallApi(params, request, runtime)
	if err != nil {
		return nil, err
	}
	return &RawResponse{
		StatusCode: statusCodeOf(resp),
		Body:       resp["body"],
	}, nil
}

// statusCodeOf digs the HTTP status out of the generic CallApi result map.
func statusCodeOf(resp map[string]any) int {
	switch v := resp["statusCode"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case *int:
		if v != nil {
			return *v
		}
	}
	return 0
}
