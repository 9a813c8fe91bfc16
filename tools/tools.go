// Package tools defines the diagnostic MCP tools: one tool per
// diagnosis service, plus the crash-agent and asset-management tools
// that call the platform directly.
//
// Tool handlers never return Go errors to the MCP layer for remote
// failures; every outcome is serialized as a JSON response with a code
// field, so clients and models see one uniform shape.
package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/cqian/sysdiag/diag"
	"github.com/cqian/sysdiag/openapi"
	"github.com/cqian/sysdiag/tool"
)

// ClientFactory builds transport clients per invocation context.
// *openapi.Factory satisfies it; tests substitute their own.
type ClientFactory interface {
	Create(opts ...openapi.CreateOption) (openapi.Client, error)
}

// Deps carries the shared wiring every tool needs.
type Deps struct {
	Factory      ClientFactory
	Registry     *openapi.Registry
	Timeout      time.Duration
	PollInterval time.Duration
	Logger       zerolog.Logger
}

func (d Deps) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return diag.DefaultTimeout
}

func (d Deps) interval() time.Duration {
	if d.PollInterval > 0 {
		return d.PollInterval
	}
	return diag.DefaultPollInterval
}

// All builds the full tool registry.
func All(d Deps) *tool.Registry {
	r := tool.NewRegistry()
	registerMemoryTools(r, d)
	registerIOTools(r, d)
	registerNetworkTools(r, d)
	registerSchedTools(r, d)
	registerOtherTools(r, d)
	registerCrashTools(r, d)
	registerAssetTools(r, d)
	return r
}

// runDiagnosis submits one diagnosis and waits for its result. The
// returned string is always a JSON-encoded diag.Result; failures to even
// build a client land in the TaskCreateFailed code.
func (d Deps) runDiagnosis(ctx context.Context, uid, service, channel, region string, params map[string]any) (string, error) {
	client, err := d.Factory.Create(
		openapi.ForOperation(openapi.OpInvokeDiagnosis),
		openapi.WithIdentity(uid),
	)
	if err != nil {
		return marshal(diag.Result{Code: diag.CodeTaskCreateFailed, Message: err.Error()})
	}

	orch := diag.NewOrchestrator(client, d.Registry,
		diag.WithTimeout(d.timeout()),
		diag.WithPollInterval(d.interval()),
		diag.WithLogger(d.Logger),
	)
	res := orch.Execute(ctx, diag.Request{
		ServiceName: service,
		Channel:     channel,
		Region:      region,
		Params:      params,
	})

	d.Logger.Info().
		Str("service", service).
		Str("task_id", res.TaskID).
		Str("code", string(res.Code)).
		Msg("diagnosis finished")
	return marshal(res)
}

// diagParams assembles the wire parameter record: region, the hide
// marker the platform expects, and the non-empty extras.
func diagParams(region string, extras map[string]any) map[string]any {
	params := map[string]any{
		"region": region,
		"_hide":  "0",
	}
	for k, v := range extras {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		params[k] = v
	}
	return params
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
