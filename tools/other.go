package tools

import (
	"context"

	"github.com/cqian/sysdiag/tool"
)

type vmcoreArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
}

type diskanalysisArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
}

func registerOtherTools(r *tool.Registry, d Deps) {
	r.Add(
		tool.Func("vmcore",
			"Kernel panic history: inspects the instance's historical vmcore records and summarizes past kernel crashes.",
			func(ctx context.Context, args vmcoreArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "vmcore", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
				}))
			}),
		tool.Func("diskanalysis",
			"Disk health analysis: checks disk usage, inode exhaustion, and filesystem state on the instance.",
			func(ctx context.Context, args diskanalysisArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "diskanalysis", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
				}))
			}),
	)
}
