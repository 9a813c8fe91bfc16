package diag

// Code classifies the outcome of one diagnosis run. The set is closed:
// downstream consumers branch on these strings, so new outcomes must
// extend the set rather than overload an existing member.
type Code string

const (
	// CodeSuccess means the task ran and its result parsed.
	CodeSuccess Code = "Success"
	// CodeTaskCreateFailed means submission was rejected; no task exists.
	CodeTaskCreateFailed Code = "TaskCreateFailed"
	// CodeTaskExecuteFailed means the task ran and reported failure.
	CodeTaskExecuteFailed Code = "TaskExecuteFailed"
	// CodeTaskTimeout means the task was still running at the deadline.
	CodeTaskTimeout Code = "TaskTimeout"
	// CodeResultParseFailed means the task succeeded but its result could
	// not be decoded; the raw text is preserved in the response.
	CodeResultParseFailed Code = "ResultParseFailed"
	// CodeGetResultFailed means a poll call itself failed.
	CodeGetResultFailed Code = "GetResultFailed"
)
