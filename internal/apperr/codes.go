package apperr

type Code string

const (
	CodeUnknown              Code = "UNKNOWN"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeAlreadyExists        Code = "ALREADY_EXISTS"
	CodePermissionDenied     Code = "PERMISSION_DENIED"
	CodeUnauthenticated      Code = "UNAUTHENTICATED"
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"
	CodeInternal             Code = "INTERNAL"
)
