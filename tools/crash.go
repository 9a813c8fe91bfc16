package tools

import (
	"context"

	"github.com/cqian/sysdiag/openapi"
	"github.com/cqian/sysdiag/tool"
)

type createVmcoreTaskArgs struct {
	VmcoreURL          string `json:"vmcore_url" desc:"Download URL of the vmcore file" required:"true"`
	DebuginfoURL       string `json:"debuginfo_url" desc:"Download URL of the kernel debuginfo package; auto-resolved for Alinux and CentOS kernels"`
	DebuginfoCommonURL string `json:"debuginfo_common_url" desc:"Download URL of the debuginfo-common package; auto-resolved for Alinux and CentOS kernels"`
}

type createDmesgTaskArgs struct {
	DmesgURL string `json:"dmesg_url" desc:"Download URL of the dmesg log file" required:"true"`
}

type queryCrashTaskArgs struct {
	TaskID string `json:"task_id" desc:"Crash analysis task ID" required:"true"`
}

type listHistoryTasksArgs struct {
	Days int `json:"days" desc:"How many days of history to list, at most 30" required:"true"`
}

// callDirect performs one signed platform call without the poll loop.
// The response envelope already carries code/message/data, so it passes
// through as-is; local failures are folded into the same shape.
func (d Deps) callDirect(ctx context.Context, operation string, req any) (string, error) {
	client, err := d.Factory.Create(openapi.ForOperation(operation))
	if err != nil {
		return marshal(map[string]any{"code": "Error", "message": err.Error()})
	}
	payload, err := client.Invoke(ctx, operation, req)
	if err != nil {
		return marshal(map[string]any{"code": "Error", "message": err.Error()})
	}
	return marshal(payload)
}

func registerCrashTools(r *tool.Registry, d Deps) {
	openapi.RegisterCrashRoutes(d.Registry)

	r.Add(
		tool.Func("create_vmcore_diagnosis_task",
			"Create a kernel crash analysis task from a vmcore file. The analysis resolves the crash's root cause against debug symbols and searches for related community fixes; expect it to run 5-30 minutes before the result is ready.",
			func(ctx context.Context, args createVmcoreTaskArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpCreateCrashTask, openapi.CreateCrashTaskRequest{
					TaskType:           "vmcore",
					VmcoreURL:          args.VmcoreURL,
					DebuginfoURL:       args.DebuginfoURL,
					DebuginfoCommonURL: args.DebuginfoCommonURL,
				})
			}),
		tool.Func("create_dmesg_diagnosis_task",
			"Create a crash analysis task from a dmesg log preserved after a system hang or panic.",
			func(ctx context.Context, args createDmesgTaskArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpCreateCrashTask, openapi.CreateCrashTaskRequest{
					TaskType: "dmesg",
					DmesgURL: args.DmesgURL,
				})
			}),
		tool.Func("query_diagnosis_task",
			"Query a crash analysis task by ID. Returns the task status (created, queued, running, success, error) and, once finished, the diagnosis result.",
			func(ctx context.Context, args queryCrashTaskArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpGetCrashTask, openapi.GetCrashTaskRequest{
					TaskID: args.TaskID,
				})
			}),
		tool.Func("list_history_tasks",
			"List crash analysis tasks created within the last N days, covering both vmcore and dmesg diagnoses.",
			func(ctx context.Context, args listHistoryTasksArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpListCrashTasks, openapi.ListCrashTasksRequest{
					Days: args.Days,
				})
			}),
	)
}
