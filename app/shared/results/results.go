// Package results carries the outcome of a service operation. Business
// rejections travel in the Failure side with a nil error; errors are reserved
// for infrastructure problems the caller may retry.
package results

// OperationResult holds either a success or a failure payload. Exactly one of
// the two is non-nil after a service operation returns without error.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// OK wraps a success payload.
func OK[S any, F any](payload S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &payload}
}

// Fail wraps a failure payload.
func Fail[S any, F any](payload F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &payload}
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the operation produced a failure payload.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
