// Package exitcode defines the process exit codes of the tareas CLI.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments, invalid forms and unknown tasks.
	UserError = 1

	// AuthError means there is no usable session, the credentials were
	// rejected or Google Tasks is not linked.
	AuthError = 2

	// BackendError means the task service or its storage failed.
	BackendError = 3
)
