package tools

import (
	"context"

	"github.com/cqian/sysdiag/tool"
)

type memgraphArgs struct {
	UID         string `json:"uid" desc:"Caller account uid" required:"true"`
	Region      string `json:"region" desc:"Target region, e.g. cn-hangzhou" required:"true"`
	Channel     string `json:"channel" desc:"Diagnosis channel: ecs for instance targets, auto for cluster pods" required:"true" enum:"ecs,auto"`
	Instance    string `json:"instance" desc:"Instance ID, required on the ecs channel"`
	Pod         string `json:"pod" desc:"Pod name"`
	ClusterType string `json:"clusterType" desc:"Cluster kind for the auto channel" enum:"ackClusters,ackServerlessClusters,acsClusters"`
	ClusterID   string `json:"clusterId" desc:"Cluster ID for the auto channel"`
	Namespace   string `json:"namespace" desc:"Pod namespace for the auto channel"`
}

type javamemArgs struct {
	UID         string `json:"uid" desc:"Caller account uid" required:"true"`
	Region      string `json:"region" desc:"Target region" required:"true"`
	Channel     string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs,auto"`
	Instance    string `json:"instance" desc:"Instance ID" required:"true"`
	Pid         string `json:"pid" desc:"Java process pid"`
	Pod         string `json:"pod" desc:"Pod name"`
	Duration    string `json:"duration" desc:"JNI allocation profiling window in seconds, 0 to skip"`
	ClusterType string `json:"clusterType" desc:"Cluster kind"`
	ClusterID   string `json:"clusterId" desc:"Cluster ID"`
	Namespace   string `json:"namespace" desc:"Pod namespace"`
}

type oomcheckArgs struct {
	UID         string `json:"uid" desc:"Caller account uid" required:"true"`
	Region      string `json:"region" desc:"Target region" required:"true"`
	Channel     string `json:"channel" desc:"Diagnosis channel" required:"true" enum:"ecs,auto"`
	Instance    string `json:"instance" desc:"Instance ID"`
	Pod         string `json:"pod" desc:"Pod name"`
	Time        string `json:"time" desc:"Timestamp of the OOM event to inspect"`
	ClusterType string `json:"clusterType" desc:"Cluster kind"`
	ClusterID   string `json:"clusterId" desc:"Cluster ID"`
	Namespace   string `json:"namespace" desc:"Pod namespace"`
}

func registerMemoryTools(r *tool.Registry, d Deps) {
	r.Add(
		tool.Func("memgraph",
			"Panoramic kernel memory analysis: breaks down system and application memory and ranks the top 30 consumers by application usage, file cache, and shared memory.",
			func(ctx context.Context, args memgraphArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "memgraph", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance":    args.Instance,
					"pod":         args.Pod,
					"clusterType": args.ClusterType,
					"clusterId":   args.ClusterID,
					"namespace":   args.Namespace,
				}))
			}),
		tool.Func("javamem",
			"Java process memory analysis: inspects heap, metaspace, and JNI allocations of a Java process, optionally profiling allocations over a time window.",
			func(ctx context.Context, args javamemArgs) (string, error) {
				duration := args.Duration
				if duration == "" {
					duration = "0"
				}
				return d.runDiagnosis(ctx, args.UID, "javamem", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance":    args.Instance,
					"Pid":         args.Pid,
					"pod":         args.Pod,
					"duration":    duration,
					"clusterType": args.ClusterType,
					"clusterId":   args.ClusterID,
					"namespace":   args.Namespace,
				}))
			}),
		tool.Func("oomcheck",
			"Out-of-memory diagnosis: reconstructs an OOM kill event and identifies the process and memory pressure that triggered it.",
			func(ctx context.Context, args oomcheckArgs) (string, error) {
				return d.runDiagnosis(ctx, args.UID, "oomcheck", args.Channel, args.Region, diagParams(args.Region, map[string]any{
					"instance":    args.Instance,
					"pod":         args.Pod,
					"time":        args.Time,
					"clusterType": args.ClusterType,
					"clusterId":   args.ClusterID,
					"namespace":   args.Namespace,
				}))
			}),
	)
}
