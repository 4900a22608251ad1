package authz

import "errors"

// Sentinel targets for errors.Is checks. Concrete errors carry the stable,
// human-readable reason strings the HTTP layer surfaces verbatim.
var (
	// ErrDenied indicates the actor lacks permission or tenant scope.
	ErrDenied = errors.New("authz: access denied")
	// ErrNotFound indicates the referenced resource is absent or soft-deleted.
	ErrNotFound = errors.New("authz: resource not found")
)

// DeniedError is an access denial with a stable reason string.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

// Is reports this error as ErrDenied.
func (e *DeniedError) Is(target error) bool { return target == ErrDenied }

// Denied constructs a DeniedError with the given reason.
func Denied(reason string) error {
	return &DeniedError{Reason: reason}
}

// NotFoundError reports an absent or soft-deleted resource. Not-found always
// takes precedence over a scope decision.
type NotFoundError struct {
	Resource Resource
}

func (e *NotFoundError) Error() string {
	switch e.Resource {
	case ResourceUser:
		return "User not found"
	case ResourceStore:
		return "Store not found"
	case ResourceCategory:
		return "Category not found"
	case ResourceProduct:
		return "Product not found"
	case ResourceTransaction:
		return "Transaction not found"
	}
	return "Resource not found"
}

// Is reports this error as ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
