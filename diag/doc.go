// Package diag runs the submit-and-poll diagnosis protocol on top of a
// transport client.
//
// A diagnosis is asynchronous on the remote side: submitting returns a
// task id, and the result becomes available some time later. The
// [Orchestrator] hides that lifecycle behind one blocking call that
// submits, polls until the task leaves the running state, and classifies
// the outcome into the fixed [Code] vocabulary. Callers never see raw
// transport errors; every failure mode maps to a code and a message, so
// the response shape is the same whether the diagnosis succeeded,
// failed remotely, or never got off the ground.
package diag
