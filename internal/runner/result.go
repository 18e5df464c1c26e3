// SPDX-License-Identifier: MPL-2.0

package runner

type (
	// Result is the outcome of one invocation.
	//
	// Error is set only when the process could not be run at all (missing
	// executable, permission denied, cancelled context). A process that ran
	// and exited non-zero has a nil Error and a non-zero ExitCode.
	Result struct {
		ExitCode ExitCode
		// Output holds combined stdout and stderr for Capture; it is empty for Attach.
		Output []byte
		Error  error
	}
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Succeeded reports whether the process ran and exited zero.
func (r *Result) Succeeded() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}
