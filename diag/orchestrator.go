package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cqian/sysdiag/openapi"
)

// Default pacing of the poll loop.
const (
	DefaultTimeout      = 150 * time.Second
	DefaultPollInterval = time.Second
)

// Request describes one diagnosis to run. ServiceName selects the
// diagnostic service on the platform, Channel the access path to the
// target, and Params the service-specific parameter record.
type Request struct {
	ServiceName string
	Channel     string
	Region      string
	Params      map[string]any
}

// Result is the uniform outcome of a diagnosis run. Data is populated on
// success; on a parse failure it holds the raw result text under "raw".
type Result struct {
	Code    Code           `json:"code"`
	Message string         `json:"message,omitempty"`
	TaskID  string         `json:"task_id"`
	Data    map[string]any `json:"result,omitempty"`
}

// Orchestrator drives the submit-and-poll lifecycle over one transport
// client. It is stateless across runs and safe for concurrent use as
// long as the client is.
type Orchestrator struct {
	client   openapi.Client
	registry *openapi.Registry
	timeout  time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds the whole run, submission included.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithPollInterval sets the delay between result polls.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.interval = d
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// NewOrchestrator creates an orchestrator over a transport client. The
// registry receives the diagnosis routes on first use.
func NewOrchestrator(client openapi.Client, registry *openapi.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		registry: registry,
		timeout:  DefaultTimeout,
		interval: DefaultPollInterval,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs one diagnosis to completion. It never returns a Go error:
// every failure mode is folded into the Result code so callers get one
// uniform shape. Context cancellation counts as a timeout.
func (o *Orchestrator) Execute(ctx context.Context, req Request) Result {
	if o.registry != nil {
		openapi.RegisterDiagnosisRoutes(o.registry)
	}

	deadline := time.Now().Add(o.timeout)

	taskID, res := o.submit(ctx, req)
	if res != nil {
		return *res
	}

	o.log.Info().
		Str("service", req.ServiceName).
		Str("task_id", taskID).
		Msg("diagnosis submitted")

	return o.poll(ctx, taskID, deadline)
}

// submit sends the invocation and extracts the task id. A non-nil Result
// is terminal.
func (o *Orchestrator) submit(ctx context.Context, req Request) (string, *Result) {
	params, err := json.Marshal(req.Params)
	if err != nil {
		return "", &Result{Code: CodeTaskCreateFailed, Message: fmt.Sprintf("encode params: %v", err)}
	}

	payload, err := o.client.Invoke(ctx, openapi.OpInvokeDiagnosis, o.submitRequest(req, string(params)))
	if err != nil {
		return "", &Result{Code: CodeTaskCreateFailed, Message: err.Error()}
	}

	env, ok := payload.(map[string]any)
	if !ok {
		return "", &Result{Code: CodeTaskCreateFailed, Message: fmt.Sprintf("unexpected response shape %T", payload)}
	}
	if envCode(env) != "Success" {
		return "", &Result{Code: CodeTaskCreateFailed, Message: envMessage(env, "diagnosis submission rejected")}
	}

	taskID, _ := envData(env)["task_id"].(string)
	if taskID == "" {
		return "", &Result{Code: CodeTaskCreateFailed, Message: "response carries no task id"}
	}
	return taskID, nil
}

// submitRequest shapes the invocation for the client's transport: typed
// for the cloud SDK, loose map for the framework.
func (o *Orchestrator) submitRequest(req Request, params string) any {
	if o.client.Transport() == openapi.TransportCloud {
		return openapi.InvokeDiagnosisRequest{
			ServiceName: req.ServiceName,
			Channel:     req.Channel,
			Params:      params,
		}
	}
	return map[string]any{
		"service_name": req.ServiceName,
		"channel":      req.Channel,
		"params":       params,
	}
}

func (o *Orchestrator) pollRequest(taskID string) any {
	if o.client.Transport() == openapi.TransportCloud {
		return openapi.GetDiagnosisResultRequest{TaskID: taskID}
	}
	return map[string]any{"task_id": taskID}
}

// poll queries the task until it leaves the running state or the
// deadline passes.
func (o *Orchestrator) poll(ctx context.Context, taskID string, deadline time.Time) Result {
	timeout := func() Result {
		return Result{
			Code:    CodeTaskTimeout,
			TaskID:  taskID,
			Message: fmt.Sprintf("diagnosis did not finish within %s, task_id: %s", o.timeout, taskID),
		}
	}

	for {
		if !time.Now().Before(deadline) {
			return timeout()
		}

		payload, err := o.client.Invoke(ctx, openapi.OpGetDiagnosisResult, o.pollRequest(taskID))
		if err != nil {
			return Result{Code: CodeGetResultFailed, TaskID: taskID, Message: err.Error()}
		}

		env, ok := payload.(map[string]any)
		if !ok {
			return Result{Code: CodeGetResultFailed, TaskID: taskID, Message: fmt.Sprintf("unexpected response shape %T", payload)}
		}
		if envCode(env) != "Success" {
			return Result{Code: CodeGetResultFailed, TaskID: taskID, Message: envMessage(env, "result query rejected")}
		}

		data := envData(env)
		switch data["status"] {
		case "Success":
			return o.parseResult(taskID, data["result"])
		case "Fail":
			message, _ := data["err_msg"].(string)
			if message == "" {
				message = "diagnosis task failed"
			}
			return Result{Code: CodeTaskExecuteFailed, TaskID: taskID, Message: message}
		}

		// Still running.
		select {
		case <-ctx.Done():
			return timeout()
		case <-time.After(time.Until(deadline)):
			return timeout()
		case <-time.After(o.interval):
		}
	}
}

// parseResult normalizes the completed task's result. String results are
// decoded as JSON; undecodable ones keep the raw text so nothing is
// silently dropped.
func (o *Orchestrator) parseResult(taskID string, raw any) Result {
	switch v := raw.(type) {
	case map[string]any:
		return Result{Code: CodeSuccess, TaskID: taskID, Data: v}
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return Result{
				Code:    CodeResultParseFailed,
				TaskID:  taskID,
				Message: fmt.Sprintf("decode result: %v, raw: %.200s", err, v),
				Data:    map[string]any{"raw": v},
			}
		}
		return Result{Code: CodeSuccess, TaskID: taskID, Data: decoded}
	default:
		return Result{
			Code:    CodeResultParseFailed,
			TaskID:  taskID,
			Message: fmt.Sprintf("unexpected result type %T", raw),
			Data:    map[string]any{"raw": fmt.Sprint(raw)},
		}
	}
}

func envCode(env map[string]any) string {
	switch v := env["code"].(type) {
	case string:
		return v
	case float64:
		if v == 200 {
			return "Success"
		}
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

func envMessage(env map[string]any, fallback string) string {
	if v, ok := env["message"].(string); ok && v != "" {
		return v
	}
	return fallback
}

func envData(env map[string]any) map[string]any {
	if v, ok := env["data"].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
