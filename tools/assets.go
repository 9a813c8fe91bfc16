package tools

import (
	"context"

	"github.com/cqian/sysdiag/openapi"
	"github.com/cqian/sysdiag/tool"
)

type listClustersArgs struct {
	UID string `json:"uid" desc:"Caller account uid" required:"true"`
}

type listInstancesArgs struct {
	UID       string `json:"uid" desc:"Caller account uid" required:"true"`
	Region    string `json:"region" desc:"Filter by region"`
	ClusterID string `json:"cluster_id" desc:"Filter by cluster ID"`
}

type listAllInstancesArgs struct {
	UID    string `json:"uid" desc:"Caller account uid" required:"true"`
	Region string `json:"region" desc:"Filter by region"`
}

type listPodsOfInstanceArgs struct {
	UID      string `json:"uid" desc:"Caller account uid" required:"true"`
	Instance string `json:"instance" desc:"Instance ID" required:"true"`
}

func registerAssetTools(r *tool.Registry, d Deps) {
	openapi.RegisterAssetRoutes(d.Registry)

	r.Add(
		tool.Func("list_clusters",
			"List the clusters visible to the caller, with their type and status.",
			func(ctx context.Context, args listClustersArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpListClusters, openapi.ListClustersRequest{})
			}),
		tool.Func("list_instances",
			"List managed instances, optionally filtered by region or cluster.",
			func(ctx context.Context, args listInstancesArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpListInstances, openapi.ListInstancesRequest{
					Region:    args.Region,
					ClusterID: args.ClusterID,
				})
			}),
		tool.Func("list_all_instances",
			"List every instance the caller can see, managed or not.",
			func(ctx context.Context, args listAllInstancesArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpListAllInstances, openapi.ListAllInstancesRequest{})
			}),
		tool.Func("list_pods_of_instance",
			"List the pods running on one instance.",
			func(ctx context.Context, args listPodsOfInstanceArgs) (string, error) {
				return d.callDirect(ctx, openapi.OpListPodsOfInstance, openapi.ListPodsOfInstanceRequest{
					Instance: args.Instance,
				})
			}),
	)
}
