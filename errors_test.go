package sysdiag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteError(t *testing.T) {
	t.Run("unknown operation omits transport", func(t *testing.T) {
		err := &RouteError{Operation: "list_clusters"}
		assert.Contains(t, err.Error(), `no route registered for operation "list_clusters"`)
	})

	t.Run("missing binding names the transport", func(t *testing.T) {
		err := &RouteError{Operation: "invoke_diagnosis", Transport: "framework"}
		assert.Contains(t, err.Error(), "no framework binding")
	})

	t.Run("discriminated through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("create client: %w", &RouteError{Operation: "x"})
		var re *RouteError
		assert.True(t, errors.As(wrapped, &re))
		assert.Equal(t, "x", re.Operation)
	})
}

func TestTransportError(t *testing.T) {
	t.Run("wraps network faults", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &TransportError{Operation: "invoke_diagnosis", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "transport failure")
	})

	t.Run("embeds status and body", func(t *testing.T) {
		err := &TransportError{Operation: "invoke_diagnosis", Status: 502, Body: "bad gateway"}
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "bad gateway")
	})
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Operation: "get_diagnosis_result", Code: "InvalidTask", Message: "no such task"}
	assert.Contains(t, err.Error(), "InvalidTask")
	assert.Contains(t, err.Error(), "no such task")
}

func TestCredentialError(t *testing.T) {
	cause := errors.New("sts unreachable")
	err := &CredentialError{Reason: "assume role", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "assume role")

	bare := &CredentialError{Reason: "access key id is empty"}
	assert.Equal(t, "credential resolution failed: access key id is empty", bare.Error())
}
