package common

// Error represents a standardized error with code and message
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError creates a new Error instance
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// IsEmpty checks if the error is empty (no error)
func (e *Error) IsEmpty() bool {
	return e == nil || e.Code == ""
}

// String returns the string representation of the error
func (e *Error) String() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.String()
}

// Is reports whether target carries the same code, so callers can match
// domain errors with errors.Is regardless of the wrapped message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// EmptyError represents an empty error (no error occurred)
var EmptyError = &Error{}

// Domain error taxonomy shared by the invitation lifecycle and the
// impersonation manager. Handlers map codes to HTTP statuses.
var (
	ErrInvalidToken      = NewError("invalid_token", "invitation not found or token invalid")
	ErrAlreadyProcessed  = NewError("already_processed", "invitation already processed")
	ErrInvitationExpired = NewError("invitation_expired", "invitation has expired")
	ErrNotAuthorized     = NewError("not_authorized", "actor lacks rights over the target resource")
	ErrInvalidPermission = NewError("invalid_permission", "permission level not valid for target kind")
	ErrNotFound          = NewError("not_found", "record not found")
	ErrNotImpersonating  = NewError("not_impersonating", "no active impersonation on this session")
	ErrCannotRestore     = NewError("cannot_restore", "original identity cannot be restored")
)
