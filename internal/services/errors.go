package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes explicitly: not-found
// to 404, access-denied to 403, invalid-scope to 400. Anything unwrapped is a
// 500 with a generic message.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrInvalidScope     = errors.New("missing or invalid report scope")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidationFailed = errors.New("validation failed")
)

// Specific not-found errors, all matching errors.Is(err, ErrNotFound).
var (
	ErrCourseNotFound       = fmt.Errorf("%w: course", ErrNotFound)
	ErrStudentNotFound      = fmt.Errorf("%w: student", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrAssignmentNotFound   = fmt.Errorf("%w: assignment", ErrNotFound)
	ErrQuizNotFound         = fmt.Errorf("%w: quiz", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)
)

// ErrDuplicateCode signals a course code collision; surfaced as a
// field-level validation error at the boundary.
var ErrDuplicateCode = fmt.Errorf("%w: course code already in use", ErrValidationFailed)

// PermissionError carries the denied action for logging; it matches
// errors.Is(err, ErrAccessDenied).
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("access denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrAccessDenied
}
