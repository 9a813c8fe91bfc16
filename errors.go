package sysdiag

import "fmt"

// RouteError indicates a dispatch problem: the operation is not registered,
// or it is registered but does not support the transport that was asked to
// carry it.
type RouteError struct {
	// Operation is the logical operation name that failed to dispatch.
	Operation string

	// Transport names the transport that could not serve the operation.
	// Empty when the operation is unknown entirely.
	Transport string
}

func (e *RouteError) Error() string {
	if e.Transport == "" {
		return fmt.Sprintf("no route registered for operation %q", e.Operation)
	}
	return fmt.Sprintf("operation %q has no %s binding", e.Operation, e.Transport)
}

// RequestTypeError indicates the caller handed a backend a request of the
// wrong shape. Backends reject mismatches instead of coercing.
type RequestTypeError struct {
	Operation string
	Want      string
	Got       string
}

func (e *RequestTypeError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("operation %q: unexpected request type %s", e.Operation, e.Got)
	}
	return fmt.Sprintf("operation %q: request must be %s, got %s", e.Operation, e.Want, e.Got)
}

// TransportError indicates the call never produced a usable remote answer:
// a network fault, or a non-200 HTTP status. The response body, when one
// exists, is embedded for diagnosis.
type TransportError struct {
	Operation string
	Status    int
	Body      string
	Err       error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("operation %q: transport failure: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("operation %q: unexpected status %d: %s", e.Operation, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError indicates the remote service answered and rejected the call.
// Code and Message are reported verbatim from the service.
type RemoteError struct {
	Operation string
	Code      string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("operation %q failed remotely: code %s: %s", e.Operation, e.Code, e.Message)
}

// CredentialError indicates credentials could not be resolved: missing
// static keys, or a failed role-assumption exchange. It is fatal for
// client construction and never retried.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential resolution failed: %s: %v", e.Reason, e.Err)
	}
	return "credential resolution failed: " + e.Reason
}

func (e *CredentialError) Unwrap() error { return e.Err }
