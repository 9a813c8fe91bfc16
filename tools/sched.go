package tools

import (
	"context"

	"github.com/cqian/sysdiag/tool"
)

type schedelayArgs struct {
	UID       string `json:"uid" desc:"Caller account uid" required:"true"`
	Region    string `json:"region" desc:"Target region" required:"true"`
	Channel   string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance  string `json:"instance" desc:"Instance ID" required:"true"`
	Duration  string `json:"duration" desc:"Capture window in seconds, default 20"`
	Threshold string `json:"threshold" desc:"Delay threshold in milliseconds, default 20"`
}

type loadtaskArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
}

func registerSchedTools(r *tool.Registry, d Deps) {
	r.Add(
		// The platform dispatches this family under the "delay" service.
		tool.Func("schedelay",
			"Scheduling delay diagnosis: detects CPUs that stop switching tasks, starving user processes of run time (memory reclaim stalls and similar), and reports the delays above the threshold.",
			func(ctx context.Context, args schedelayArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "delay", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance":  args.Instance,
					"duration":  args.Duration,
					"threshold": args.Threshold,
				}))
			}),
		tool.Func("loadtask",
			"Load analysis: breaks an abnormal one-minute load average down into the contributing tasks and their states.",
			func(ctx context.Context, args loadtaskArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "loadtask", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
				}))
			}),
	)
}
