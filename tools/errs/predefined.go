package errs

// Code ranges: 1xxx auth, 2xxx validation, 3xxx storage.
const (
	CodeUnknown = 0

	CodeTokenInvalid = 1001
	CodeTokenExpired = 1002
	CodeUserNotFound = 1003

	CodePayloadInvalid = 2001

	CodeStoreUnavailable = 3001
)

var (
	ErrTokenInvalid = NewCodeError(CodeTokenInvalid, "invalid token")
	ErrTokenExpired = NewCodeError(CodeTokenExpired, "token expired")
	ErrUserNotFound = NewCodeError(CodeUserNotFound, "user not found")

	ErrPayloadInvalid = NewCodeError(CodePayloadInvalid, "invalid payload")

	ErrStoreUnavailable = NewCodeError(CodeStoreUnavailable, "storage unavailable")
)
