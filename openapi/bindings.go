package openapi

import (
	"context"
	"net/http"
	"reflect"
)

// Logical operation names shared by the orchestrator and the tool
// adapters. Routes for them are registered lazily by whichever component
// first needs them.
const (
	OpInvokeDiagnosis    = "invoke_diagnosis"
	OpGetDiagnosisResult = "get_diagnosis_result"

	OpCreateCrashTask = "create_task"
	OpGetCrashTask    = "get_task"
	OpListCrashTasks  = "list_task"

	OpListClusters       = "list_clusters"
	OpListInstances      = "list_instances"
	OpListAllInstances   = "list_all_instances"
	OpListPodsOfInstance = "list_pods_of_instance"
)

// FrameworkServiceName is the logical service hosting the OpenAPI facade
// inside the cluster.
const FrameworkServiceName = "sysom_openapi"

// InvokeDiagnosisRequest submits one diagnosis. Params carries the
// operation-specific parameter record serialized to JSON.
type InvokeDiagnosisRequest struct {
	ServiceName string `json:"service_name"`
	Channel     string `json:"channel"`
	Params      string `json:"params"`
}

// GetDiagnosisResultRequest polls one diagnosis task.
type GetDiagnosisResultRequest struct {
	TaskID string `json:"task_id"`
}

// CreateCrashTaskRequest creates a kernel crash analysis task from an
// uploaded vmcore or dmesg artifact. TaskType selects which.
type CreateCrashTaskRequest struct {
	TaskType           string `json:"task_type"`
	VmcoreURL          string `json:"vmcore_url,omitempty"`
	DebuginfoURL       string `json:"debuginfo_url,omitempty"`
	DebuginfoCommonURL string `json:"debuginfo_common_url,omitempty"`
	DmesgURL           string `json:"dmesg_url,omitempty"`
}

// GetCrashTaskRequest queries one crash analysis task.
type GetCrashTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ListCrashTasksRequest lists crash analysis tasks created within the
// last Days days.
type ListCrashTasksRequest struct {
	Days int `json:"days"`
}

// ListClustersRequest lists the clusters visible to the caller.
type ListClustersRequest struct{}

// ListInstancesRequest lists managed instances, optionally narrowed to a
// cluster or region.
type ListInstancesRequest struct {
	ClusterID string `json:"cluster_id,omitempty"`
	Region    string `json:"region,omitempty"`
}

// ListAllInstancesRequest lists every instance the caller can see.
type ListAllInstancesRequest struct{}

// ListPodsOfInstanceRequest lists the pods running on one instance.
type ListPodsOfInstanceRequest struct {
	Instance string `json:"instance"`
}

// RegisterDiagnosisRoutes registers the fixed submit/poll operations of
// the diagnosis protocol on both transports. Operations that are already
// registered are left untouched, so repeated calls never replace a live
// route.
func RegisterDiagnosisRoutes(r *Registry) {
	invokeCloud := rpcBinding("InvokeDiagnosis", http.MethodPost,
		func(req InvokeDiagnosisRequest) map[string]any {
			return query(map[string]any{
				"ServiceName": req.ServiceName,
				"Channel":     req.Channel,
				"Params":      req.Params,
			})
		})
	r.RegisterOnce(OpInvokeDiagnosis, &FrameworkBinding{
		Service: FrameworkServiceName,
		Path:    "/api/v1/openapi/diagnosis/invokeDiagnosis",
		Method:  http.MethodPost,
	}, &invokeCloud)

	resultCloud := rpcBinding("GetDiagnosisResult", http.MethodGet,
		func(req GetDiagnosisResultRequest) map[string]any {
			return query(map[string]any{"TaskId": req.TaskID})
		})
	r.RegisterOnce(OpGetDiagnosisResult, &FrameworkBinding{
		Service: FrameworkServiceName,
		Path:    "/api/v1/openapi/diagnosis/getDiagnosisResults",
		Method:  http.MethodGet,
	}, &resultCloud)
}

// RegisterCrashRoutes registers the crash-agent operations. These exist
// only on the cloud transport; already-registered operations are left
// untouched.
func RegisterCrashRoutes(r *Registry) {
	registerCloudOnce(r, OpCreateCrashTask, rpcBinding("CreateVmcoreDiagnosisTask", http.MethodPost,
		func(req CreateCrashTaskRequest) map[string]any {
			return query(map[string]any{
				"TaskType":           req.TaskType,
				"VmcoreUrl":          req.VmcoreURL,
				"DebuginfoUrl":       req.DebuginfoURL,
				"DebuginfoCommonUrl": req.DebuginfoCommonURL,
				"DmesgUrl":           req.DmesgURL,
			})
		}))
	registerCloudOnce(r, OpGetCrashTask, rpcBinding("GetVmcoreDiagnosisTask", http.MethodGet,
		func(req GetCrashTaskRequest) map[string]any {
			return query(map[string]any{"TaskId": req.TaskID})
		}))
	registerCloudOnce(r, OpListCrashTasks, rpcBinding("ListVmcoreDiagnosisTask", http.MethodGet,
		func(req ListCrashTasksRequest) map[string]any {
			return query(map[string]any{"Days": req.Days})
		}))
}

// RegisterAssetRoutes registers the asset-management operations. These
// exist only on the cloud transport; already-registered operations are
// left untouched.
func RegisterAssetRoutes(r *Registry) {
	registerCloudOnce(r, OpListClusters, rpcBinding("ListClusters", http.MethodGet,
		func(ListClustersRequest) map[string]any { return map[string]any{} }))
	registerCloudOnce(r, OpListInstances, rpcBinding("ListInstances", http.MethodGet,
		func(req ListInstancesRequest) map[string]any {
			return query(map[string]any{
				"ClusterId": req.ClusterID,
				"Region":    req.Region,
			})
		}))
	registerCloudOnce(r, OpListAllInstances, rpcBinding("ListAllInstances", http.MethodGet,
		func(ListAllInstancesRequest) map[string]any { return map[string]any{} }))
	registerCloudOnce(r, OpListPodsOfInstance, rpcBinding("ListPodsOfInstance", http.MethodGet,
		func(req ListPodsOfInstanceRequest) map[string]any {
			return query(map[string]any{"Instance": req.Instance})
		}))
}

func registerCloudOnce(r *Registry, name string, b CloudBinding) {
	r.RegisterOnce(name, nil, &b)
}

// rpcBinding builds a CloudBinding for one RPC-style action from a typed
// request-to-query projection.
func rpcBinding[T any](action, method string, project func(T) map[string]any) CloudBinding {
	return CloudBinding{
		RequestType:  reflect.TypeOf(*new(T)),
		ResponseType: reflect.TypeOf((map[string]any)(nil)),
		Invoke: func(ctx context.Context, conn *Conn, req any) (*RawResponse, error) {
			return conn.CallRPC(ctx, action, method, project(req.(T)))
		},
	}
}

// query drops empty strings so optional parameters stay off the wire.
// Numeric values always go through: zero is a meaningful argument (a
// days window of 0 means today), not an absent one.
func query(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}
