package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysdiag "github.com/cqian/sysdiag"
	"github.com/cqian/sysdiag/discovery"
)

func frameworkFixture(t *testing.T, handler http.HandlerFunc) (*FrameworkClient, *Registry) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	resolver := discovery.NewStatic()
	resolver.Add("svc", discovery.Instance{Host: host, Port: port, Healthy: true})

	reg := NewRegistry()
	reg.RegisterFramework("submit", FrameworkBinding{Service: "svc", Path: "/submit", Method: http.MethodPost})
	reg.RegisterFramework("poll", FrameworkBinding{Service: "svc", Path: "/poll", Method: http.MethodGet})

	return NewFrameworkClient(reg, resolver, "123456789"), reg
}

func TestFrameworkClientInvoke(t *testing.T) {
	t.Run("post carries identity headers and json body", func(t *testing.T) {
		var gotReq *http.Request
		var gotBody []byte
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			gotReq = r
			gotBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"code":200,"data":{"task_id":"t1"}}`))
		})

		payload, err := client.Invoke(context.Background(), "submit", map[string]any{
			"service_name": "memgraph",
			"channel":      "ssh",
		})
		require.NoError(t, err)

		require.NotNil(t, gotReq)
		assert.Equal(t, http.MethodPost, gotReq.Method)
		assert.Equal(t, "/submit", gotReq.URL.Path)
		assert.Equal(t, "customer", gotReq.Header.Get("x-acs-caller-type"))
		assert.Equal(t, "123456789", gotReq.Header.Get("x-acs-caller-uid"))
		assert.NotEmpty(t, gotReq.Header.Get("x-request-id"))

		var sent map[string]any
		require.NoError(t, json.Unmarshal(gotBody, &sent))
		assert.Equal(t, "memgraph", sent["service_name"])

		result, ok := payload.(map[string]any)
		require.True(t, ok)
		data, ok := result["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "t1", data["task_id"])
	})

	t.Run("get encodes params into the query", func(t *testing.T) {
		var gotReq *http.Request
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			gotReq = r
			w.Write([]byte(`{"code":200}`))
		})

		_, err := client.Invoke(context.Background(), "poll", map[string]any{"task_id": "t9"})
		require.NoError(t, err)

		require.NotNil(t, gotReq)
		assert.Equal(t, http.MethodGet, gotReq.Method)
		assert.Equal(t, "t9", gotReq.URL.Query().Get("task_id"))
	})

	t.Run("nil request means no params", func(t *testing.T) {
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		_, err := client.Invoke(context.Background(), "poll", nil)
		assert.NoError(t, err)
	})

	t.Run("non-200 surfaces status and body", func(t *testing.T) {
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		})

		_, err := client.Invoke(context.Background(), "submit", map[string]any{})
		var terr *sysdiag.TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusBadGateway, terr.Status)
		assert.Contains(t, terr.Body, "upstream down")
	})

	t.Run("structured request rejected", func(t *testing.T) {
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not reach the wire")
		})

		_, err := client.Invoke(context.Background(), "submit", InvokeDiagnosisRequest{})
		var rerr *sysdiag.RequestTypeError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "map[string]any", rerr.Want)
	})

	t.Run("unknown operation", func(t *testing.T) {
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.Invoke(context.Background(), "missing", map[string]any{})
		var rerr *sysdiag.RouteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "missing", rerr.Operation)
	})

	t.Run("no healthy instance", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterFramework("submit", FrameworkBinding{Service: "ghost", Path: "/submit", Method: http.MethodPost})
		client := NewFrameworkClient(reg, discovery.NewStatic(), "1")

		_, err := client.Invoke(context.Background(), "submit", map[string]any{})
		var terr *sysdiag.TransportError
		require.ErrorAs(t, err, &terr)
		assert.ErrorContains(t, err, "no healthy instance")
	})

	t.Run("context cancellation propagates", func(t *testing.T) {
		client, _ := frameworkFixture(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Invoke(ctx, "submit", map[string]any{})
		var terr *sysdiag.TransportError
		require.ErrorAs(t, err, &terr)
		assert.True(t, errors.Is(terr.Err, context.Canceled) || terr.Err != nil)
	})
}
