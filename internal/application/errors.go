package application

import "errors"

// Kind groups errors by how callers should react to them.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindTokenInvalid Kind = "TOKEN_INVALID"
	KindStoreFailure Kind = "STORE_FAILURE"
)

// Reasons attached to TOKEN_INVALID errors.
const (
	ReasonExpired      = "EXPIRED"
	ReasonBadSignature = "BAD_SIGNATURE"
	ReasonMalformed    = "MALFORMED"
	ReasonRevoked      = "REVOKED"
)

// Error is the caller-facing failure of an account operation. Message is
// safe to show to clients; Err carries the internal cause and is never shown.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so wrapped copies still compare equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidEmail     = &Error{Kind: KindValidation, Code: "INVALID_EMAIL", Message: "invalid email format"}
	ErrInvalidPassword  = &Error{Kind: KindValidation, Code: "INVALID_INPUT", Message: "password is too long"}
	ErrUnsupportedFile  = &Error{Kind: KindValidation, Code: "UNSUPPORTED_FILE", Message: "unsupported file type"}
	ErrNoToken          = &Error{Kind: KindValidation, Code: "NO_TOKEN", Message: "no token provided"}
	ErrEmailTaken       = &Error{Kind: KindConflict, Code: "EMAIL_TAKEN", Message: "user with this email already exists"}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "user not found"}
	ErrBadCredentials   = &Error{Kind: KindUnauthorized, Code: "BAD_CREDENTIALS", Message: "wrong credentials"}
	ErrForbidden        = &Error{Kind: KindUnauthorized, Code: "FORBIDDEN", Message: "you can only delete your own account"}
	ErrIdentityRejected = &Error{Kind: KindUnauthorized, Code: "IDENTITY_REJECTED", Message: "identity could not be verified"}
	ErrTokenInvalid     = &Error{Kind: KindTokenInvalid, Code: "TOKEN_INVALID", Message: "invalid or expired token"}
	ErrStoreFailure     = &Error{Kind: KindStoreFailure, Code: "STORE_FAILURE", Message: "internal error"}
	ErrUnavailable      = &Error{Kind: KindStoreFailure, Code: "UNAVAILABLE", Message: "service not configured"}
)

func tokenInvalid(reason string) *Error {
	e := *ErrTokenInvalid
	e.Reason = reason
	return &e
}

func wrap(base *Error, err error) *Error {
	e := *base
	e.Err = err
	return &e
}

// KindOf reports the Kind of err; anything that is not an *Error counts as a store failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}
