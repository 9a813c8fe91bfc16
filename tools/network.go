package tools

import (
	"context"

	"github.com/cqian/sysdiag/tool"
)

type packetdropArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Region   string `json:"region" desc:"Target region" required:"true"`
	Channel  string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
}

type netjitterArgs struct {
	UID       string `json:"uid" desc:"Caller account uid" required:"true"`
	Region    string `json:"region" desc:"Target region" required:"true"`
	Channel   string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs"`
	Instance  string `json:"instance" desc:"Instance ID" required:"true"`
	Duration  string `json:"duration" desc:"Capture window in seconds, default 20"`
	Threshold string `json:"threshold" desc:"Jitter threshold in milliseconds, default 10"`
}

func registerNetworkTools(r *tool.Registry, d Deps) {
	r.Add(
		tool.Func("packetdrop",
			"Packet drop diagnosis: watches the kernel network stack for dropped packets and reports the drop points with their reasons.",
			func(ctx context.Context, args packetdropArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "packetdrop", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance": args.Instance,
				}))
			}),
		tool.Func("netjitter",
			"Network jitter diagnosis: attributes latency spikes to slow application receive, softirq processing, or qdisc queueing in the kernel.",
			func(ctx context.Context, args netjitterArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "netjitter", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance":  args.Instance,
					"duration":  args.Duration,
					"threshold": args.Threshold,
				}))
			}),
	)
}
