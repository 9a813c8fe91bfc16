package tools

import (
	"context"

	"github.com/cqian/sysdiag/tool"
)

type iofsstatArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
	Timeout  string `json:"timeout" desc:"Capture window in seconds, default 15"`
	Disk     string `json:"disk" desc:"Disk device to trace, all disks when empty"`
}

type iodiagnoseArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
	Timeout  string `json:"timeout" desc:"Capture window in seconds, default 30"`
}

func registerIOTools(r *tool.Registry, d Deps) {
	r.Add(
		tool.Func("iofsstat",
			"IO traffic attribution: traces disk and filesystem IO over a capture window and attributes the traffic to disks, partitions, and processes.",
			func(ctx context.Context, args iofsstatArgs) (string, error) {
				timeout := args.Timeout
				if timeout == "" {
					timeout = "15"
				}
				return d.runDiagnosis(ctx, args.UID, "iofsstat", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
					"timeout":  timeout,
					"disk":     args.Disk,
				}))
			}),
		tool.Func("iodiagnose",
			"IO latency diagnosis: identifies high-latency, burst, and IO-wait problems, locating whether the delay sits in the OS or the backing service.",
			func(ctx context.Context, args iodiagnoseArgs) (string, error) {
				timeout := args.Timeout
				if timeout == "" {
					timeout = "30"
				}
				return d.runDiagnosis(ctx, args.UID, "iodiagnose", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
					"timeout":  timeout,
				}))
			}),
	)
}
