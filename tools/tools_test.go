package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqian/sysdiag/diag"
	"github.com/cqian/sysdiag/openapi"
)

// scriptedClient answers every operation from a fixed script.
type scriptedClient struct {
	transport openapi.Transport
	responses map[string]any
	errs      map[string]error
	calls     []recordedCall
}

type recordedCall struct {
	operation string
	request   any
}

func (c *scriptedClient) Transport() openapi.Transport { return c.transport }

func (c *scriptedClient) Invoke(ctx context.Context, operation string, req any) (any, error) {
	c.calls = append(c.calls, recordedCall{operation: operation, request: req})
	if err := c.errs[operation]; err != nil {
		return nil, err
	}
	return c.responses[operation], nil
}

type fakeFactory struct {
	client    *scriptedClient
	createErr error
}

func (f *fakeFactory) Create(opts ...openapi.CreateOption) (openapi.Client, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.client, nil
}

func testDeps(client *scriptedClient) Deps {
	return Deps{
		Factory:      &fakeFactory{client: client},
		Registry:     openapi.NewRegistry(),
		Timeout:      time.Second,
		PollInterval: time.Millisecond,
	}
}

func diagnosisScript(taskID string, result any) map[string]any {
	return map[string]any{
		openapi.OpInvokeDiagnosis: map[string]any{
			"code": "Success",
			"data": map[string]any{"task_id": taskID},
		},
		openapi.OpGetDiagnosisResult: map[string]any{
			"code": "Success",
			"data": map[string]any{"status": "Success", "result": result},
		},
	}
}

func execute(t *testing.T, d Deps, name string, args map[string]any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	out, err := All(d).Execute(context.Background(), name, raw)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	return decoded
}

func TestAllRegistersEveryTool(t *testing.T) {
	d := testDeps(&scriptedClient{transport: openapi.TransportCloud})
	r := All(d)

	expected := []string{
		"memgraph", "javamem", "oomcheck",
		"iofsstat", "iodiagnose",
		"packetdrop", "netjitter",
		"schedelay", "loadtask",
		"vmcore", "diskanalysis",
		"create_vmcore_diagnosis_task", "create_dmesg_diagnosis_task",
		"query_diagnosis_task", "list_history_tasks",
		"list_clusters", "list_instances", "list_all_instances", "list_pods_of_instance",
	}
	assert.ElementsMatch(t, expected, r.Names())

	for _, name := range expected {
		tl, ok := r.GetTool(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tl.Description, name)
		assert.NotEmpty(t, tl.Schema, name)
	}
}

func TestDiagnosisTool(t *testing.T) {
	t.Run("success carries the parsed result", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			responses: diagnosisScript("t1", map[string]any{"top": "java"}),
		}
		d := testDeps(client)

		out := execute(t, d, "memgraph", map[string]any{
			"uid":      "123456789",
			"region":   "cn-hangzhou",
			"channel":  "ecs",
			"instance": "i-bp148hw2bn8rktm8u1a7",
		})

		assert.Equal(t, "Success", out["code"])
		assert.Equal(t, "t1", out["task_id"])
		result := out["result"].(map[string]any)
		assert.Equal(t, "java", result["top"])
	})

	t.Run("wire params carry region and hide marker", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			responses: diagnosisScript("t1", map[string]any{}),
		}
		d := testDeps(client)

		execute(t, d, "iofsstat", map[string]any{
			"uid":      "123456789",
			"region":   "cn-hangzhou",
			"channel":  "ecs",
			"instance": "i-abc",
		})

		require.NotEmpty(t, client.calls)
		submit, ok := client.calls[0].request.(openapi.InvokeDiagnosisRequest)
		require.True(t, ok)
		assert.Equal(t, "iofsstat", submit.ServiceName)

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(submit.Params), &params))
		assert.Equal(t, "cn-hangzhou", params["region"])
		assert.Equal(t, "0", params["_hide"])
		assert.Equal(t, "i-abc", params["instance"])
		assert.Equal(t, "15", params["timeout"], "capture window defaults to 15 seconds")
		assert.NotContains(t, params, "disk", "empty optionals stay off the wire")
	})

	t.Run("scheduler tool dispatches the delay service", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			responses: diagnosisScript("t1", map[string]any{}),
		}
		d := testDeps(client)

		execute(t, d, "schedelay", map[string]any{
			"uid":       "123456789",
			"region":    "cn-shenzhen",
			"channel":   "ecs",
			"instance":  "i-abc",
			"threshold": "20",
		})

		require.NotEmpty(t, client.calls)
		submit := client.calls[0].request.(openapi.InvokeDiagnosisRequest)
		assert.Equal(t, "delay", submit.ServiceName)

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(submit.Params), &params))
		assert.Equal(t, "20", params["threshold"])
		assert.NotContains(t, params, "pid")
	})

	t.Run("netjitter carries duration and threshold", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			responses: diagnosisScript("t1", map[string]any{}),
		}
		d := testDeps(client)

		execute(t, d, "netjitter", map[string]any{
			"uid":       "123456789",
			"region":    "cn-shenzhen",
			"channel":   "ecs",
			"instance":  "i-abc",
			"duration":  "30",
			"threshold": "10",
		})

		submit := client.calls[0].request.(openapi.InvokeDiagnosisRequest)
		assert.Equal(t, "netjitter", submit.ServiceName)

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(submit.Params), &params))
		assert.Equal(t, "30", params["duration"])
		assert.Equal(t, "10", params["threshold"])
	})

	t.Run("factory failure maps to TaskCreateFailed", func(t *testing.T) {
		d := testDeps(nil)
		d.Factory = &fakeFactory{createErr: errors.New("no credentials")}

		out := execute(t, d, "oomcheck", map[string]any{
			"uid": "1", "region": "cn-hangzhou", "channel": "ecs",
		})
		assert.Equal(t, string(diag.CodeTaskCreateFailed), out["code"])
		assert.Contains(t, out["message"], "no credentials")
	})

	t.Run("remote failure keeps the result shape", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			errs:      map[string]error{openapi.OpInvokeDiagnosis: errors.New("throttled")},
		}
		d := testDeps(client)

		out := execute(t, d, "packetdrop", map[string]any{
			"uid": "1", "region": "cn-hangzhou", "channel": "ecs", "instance": "i-abc",
		})
		assert.Equal(t, string(diag.CodeTaskCreateFailed), out["code"])
	})
}

func TestCrashTools(t *testing.T) {
	t.Run("create vmcore task", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			responses: map[string]any{
				openapi.OpCreateCrashTask: map[string]any{
					"code": "Success",
					"data": map[string]any{"taskId": "99fc9c12"},
				},
			},
		}
		d := testDeps(client)

		out := execute(t, d, "create_vmcore_diagnosis_task", map[string]any{
			"vmcore_url": "http://oss.example.com/vmcore",
		})
		assert.Equal(t, "Success", out["code"])

		require.Len(t, client.calls, 1)
		req, ok := client.calls[0].request.(openapi.CreateCrashTaskRequest)
		require.True(t, ok)
		assert.Equal(t, "vmcore", req.TaskType)
		assert.Equal(t, "http://oss.example.com/vmcore", req.VmcoreURL)
	})

	t.Run("create dmesg task sets the task type", func(t *testing.T) {
		client := &scriptedClient{transport: openapi.TransportCloud, responses: map[string]any{
			openapi.OpCreateCrashTask: map[string]any{"code": "Success"},
		}}
		d := testDeps(client)

		execute(t, d, "create_dmesg_diagnosis_task", map[string]any{
			"dmesg_url": "http://oss.example.com/dmesg",
		})

		req := client.calls[0].request.(openapi.CreateCrashTaskRequest)
		assert.Equal(t, "dmesg", req.TaskType)
		assert.Equal(t, "http://oss.example.com/dmesg", req.DmesgURL)
		assert.Empty(t, req.VmcoreURL)
	})

	t.Run("invoke failure becomes an error envelope", func(t *testing.T) {
		client := &scriptedClient{
			transport: openapi.TransportCloud,
			errs:      map[string]error{openapi.OpGetCrashTask: errors.New("not found")},
		}
		d := testDeps(client)

		out := execute(t, d, "query_diagnosis_task", map[string]any{"task_id": "missing"})
		assert.Equal(t, "Error", out["code"])
		assert.Contains(t, out["message"], "not found")
	})

	t.Run("crash routes are registered", func(t *testing.T) {
		d := testDeps(&scriptedClient{transport: openapi.TransportCloud})
		All(d)

		for _, op := range []string{openapi.OpCreateCrashTask, openapi.OpGetCrashTask, openapi.OpListCrashTasks} {
			_, ok := d.Registry.Resolve(op)
			assert.True(t, ok, op)
		}
	})
}

func TestAssetTools(t *testing.T) {
	client := &scriptedClient{
		transport: openapi.TransportCloud,
		responses: map[string]any{
			openapi.OpListPodsOfInstance: map[string]any{
				"code": "Success",
				"data": []any{map[string]any{"pod": "kagent-ui"}},
			},
		},
	}
	d := testDeps(client)

	out := execute(t, d, "list_pods_of_instance", map[string]any{
		"uid":      "123456789",
		"instance": "i-abc",
	})
	assert.Equal(t, "Success", out["code"])

	req := client.calls[0].request.(openapi.ListPodsOfInstanceRequest)
	assert.Equal(t, "i-abc", req.Instance)

	for _, op := range []string{openapi.OpListClusters, openapi.OpListInstances, openapi.OpListAllInstances} {
		_, ok := d.Registry.Resolve(op)
		assert.True(t, ok, op)
	}
}
