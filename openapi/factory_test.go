package openapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysdiag "github.com/cqian/sysdiag"
	"github.com/cqian/sysdiag/discovery"
)

func testFactory(reg *Registry, def DeployMode) *Factory {
	return &Factory{
		Registry:    reg,
		Default:     def,
		Resolver:    discovery.NewStatic(),
		Credentials: akCreds(),
		Region:      "cn-hangzhou",
	}
}

func TestParseDeployMode(t *testing.T) {
	mode, err := ParseDeployMode("sysom_framework")
	require.NoError(t, err)
	assert.Equal(t, DeployFramework, mode)

	mode, err = ParseDeployMode("alibabacloud_sdk")
	require.NoError(t, err)
	assert.Equal(t, DeployCloud, mode)

	_, err = ParseDeployMode("bare_metal")
	assert.Error(t, err)
}

func TestFactoryCreate(t *testing.T) {
	t.Run("route pinned to framework wins over cloud default", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterFramework("op", FrameworkBinding{Service: "svc", Path: "/p", Method: http.MethodGet})
		f := testFactory(reg, DeployCloud)

		client, err := f.Create(ForOperation("op"), WithIdentity("42"))
		require.NoError(t, err)
		assert.Equal(t, TransportFramework, client.Transport())
	})

	t.Run("route pinned to cloud wins over framework default", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterCloud("op", stubBinding(nil))
		f := testFactory(reg, DeployFramework)

		client, err := f.Create(ForOperation("op"))
		require.NoError(t, err)
		assert.Equal(t, TransportCloud, client.Transport())
	})

	t.Run("dual-transport route follows the deploy default", func(t *testing.T) {
		reg := NewRegistry()
		RegisterDiagnosisRoutes(reg)

		f := testFactory(reg, DeployFramework)
		client, err := f.Create(ForOperation(OpInvokeDiagnosis), WithIdentity("42"))
		require.NoError(t, err)
		assert.Equal(t, TransportFramework, client.Transport())

		f = testFactory(reg, DeployCloud)
		client, err = f.Create(ForOperation(OpInvokeDiagnosis))
		require.NoError(t, err)
		assert.Equal(t, TransportCloud, client.Transport())
	})

	t.Run("explicit mode overrides the route", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterFramework("op", FrameworkBinding{Service: "svc", Path: "/p", Method: http.MethodGet})
		f := testFactory(reg, DeployFramework)

		client, err := f.Create(ForOperation("op"), WithMode(TransportCloud))
		require.NoError(t, err)
		assert.Equal(t, TransportCloud, client.Transport())
	})

	t.Run("unknown operation falls to the default", func(t *testing.T) {
		f := testFactory(NewRegistry(), DeployCloud)
		client, err := f.Create(ForOperation("later"))
		require.NoError(t, err)
		assert.Equal(t, TransportCloud, client.Transport())
	})

	t.Run("dual route missing the default binding is a routing error", func(t *testing.T) {
		// A route claiming both transports while carrying only a framework
		// binding; regular registration cannot produce this shape.
		reg := NewRegistry()
		reg.routes["op"] = &Route{
			Name:      "op",
			Mode:      ModeBoth,
			Framework: &FrameworkBinding{Service: "svc", Path: "/p", Method: http.MethodGet},
		}

		f := testFactory(reg, DeployCloud)
		_, err := f.Create(ForOperation("op"))
		var rerr *sysdiag.RouteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "cloud", rerr.Transport)
	})

	t.Run("framework transport requires an identity", func(t *testing.T) {
		f := testFactory(NewRegistry(), DeployFramework)
		_, err := f.Create(WithMode(TransportFramework))
		var cerr *sysdiag.CredentialError
		require.ErrorAs(t, err, &cerr)
		assert.Contains(t, cerr.Reason, "caller uid")
	})

	t.Run("role descriptor is exchanged before the backend is built", func(t *testing.T) {
		f := testFactory(NewRegistry(), DeployCloud)
		f.Credentials = Credentials{
			Mode:            ModeRAMRole,
			AccessKeyID:     "ak",
			AccessKeySecret: "secret",
			RoleARN:         "acs:ram::1:role/ops",
		}

		var gotRegion string
		f.AssumeRole = func(base Credentials, region string) (Credentials, error) {
			gotRegion = region
			assert.Equal(t, ModeRAMRole, base.Mode)
			return Credentials{
				Mode:            ModeSTS,
				AccessKeyID:     "sts-ak",
				AccessKeySecret: "sts-secret",
				SecurityToken:   "token",
			}, nil
		}

		client, err := f.Create(WithMode(TransportCloud))
		require.NoError(t, err)
		assert.Equal(t, "cn-hangzhou", gotRegion)

		cloud, ok := client.(*CloudClient)
		require.True(t, ok)
		assert.Equal(t, ModeSTS, cloud.creds.Mode)
		assert.Equal(t, "sts-ak", cloud.creds.AccessKeyID)
	})

	t.Run("failed role exchange aborts creation", func(t *testing.T) {
		f := testFactory(NewRegistry(), DeployCloud)
		f.Credentials.Mode = ModeRAMRole
		f.Credentials.RoleARN = "acs:ram::1:role/ops"
		f.AssumeRole = func(Credentials, string) (Credentials, error) {
			return Credentials{}, errors.New("sts unavailable")
		}

		_, err := f.Create(WithMode(TransportCloud))
		assert.ErrorContains(t, err, "sts unavailable")
	})
}

func TestCloudEndpoint(t *testing.T) {
	assert.Equal(t, "sysom.cn-hangzhou.aliyuncs.com", CloudEndpoint("cn-hangzhou"))
	assert.Equal(t, "sysom.aliyuncs.com", CloudEndpoint(""))
}
