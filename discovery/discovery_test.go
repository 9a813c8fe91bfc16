package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick(t *testing.T) {
	t.Run("skips unhealthy instances", func(t *testing.T) {
		instances := []Instance{
			{Host: "10.0.0.1", Port: 8000, Healthy: false},
			{Host: "10.0.0.2", Port: 8000, Healthy: true},
		}
		for range 20 {
			picked, ok := Pick(instances)
			require.True(t, ok)
			assert.Equal(t, "10.0.0.2", picked.Host)
		}
	})

	t.Run("reports false when nothing is healthy", func(t *testing.T) {
		_, ok := Pick([]Instance{{Host: "10.0.0.1", Port: 8000}})
		assert.False(t, ok)

		_, ok = Pick(nil)
		assert.False(t, ok)
	})

	t.Run("spreads across healthy instances", func(t *testing.T) {
		instances := []Instance{
			{Host: "a", Port: 1, Healthy: true},
			{Host: "b", Port: 1, Healthy: true},
		}
		seen := map[string]bool{}
		for range 200 {
			picked, ok := Pick(instances)
			require.True(t, ok)
			seen[picked.Host] = true
		}
		assert.Len(t, seen, 2)
	})
}

func TestStaticResolve(t *testing.T) {
	s := NewStatic()
	s.Add("sysom_openapi", Instance{Host: "10.0.0.1", Port: 8000, Healthy: true})

	instances, err := s.Resolve(context.Background(), "sysom_openapi")
	require.NoError(t, err)
	assert.Len(t, instances, 1)

	unknown, err := s.Resolve(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestParseEndpoints(t *testing.T) {
	t.Run("parses multiple services and replicas", func(t *testing.T) {
		s, err := ParseEndpoints("sysom_openapi=10.0.0.1:8000,10.0.0.2:8000;sysom_diagnosis=10.0.1.1:7001")
		require.NoError(t, err)

		instances, err := s.Resolve(context.Background(), "sysom_openapi")
		require.NoError(t, err)
		assert.Len(t, instances, 2)
		assert.True(t, instances[0].Healthy)
		assert.Equal(t, "10.0.0.1:8000", instances[0].Addr())

		instances, err = s.Resolve(context.Background(), "sysom_diagnosis")
		require.NoError(t, err)
		assert.Len(t, instances, 1)
	})

	t.Run("empty spec yields empty resolver", func(t *testing.T) {
		s, err := ParseEndpoints("  ")
		require.NoError(t, err)
		instances, err := s.Resolve(context.Background(), "sysom_openapi")
		require.NoError(t, err)
		assert.Empty(t, instances)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		_, err := ParseEndpoints("sysom_openapi")
		assert.Error(t, err)

		_, err = ParseEndpoints("sysom_openapi=10.0.0.1")
		assert.Error(t, err)

		_, err = ParseEndpoints("sysom_openapi=10.0.0.1:notaport")
		assert.Error(t, err)
	})
}
