package apperr

var (
	ErrUnauthenticated   = Unauthenticated("unauthenticated")
	ErrTokenInvalid      = Unauthenticated("authentication failed: invalid token")
	ErrTokenRevoked      = Unauthenticated("authentication failed: token revoked")
	ErrLoginFailed       = AuthenticationFailed("invalid email or password")
	ErrEmailTaken        = AlreadyExists("email is already registered")
	ErrTodoNotFound      = NotFound("todo not found")
	ErrNotAllowed        = Forbidden("operation not allowed")
	ErrTitleRequired     = InvalidArg("title is required")
	ErrInvalidStatus     = InvalidArg("status must be inprogress or completed")
	ErrInvalidSortKey    = InvalidArg("sort key must be id or date")
	ErrMissingCredential = InvalidArg("name, email and password are required")
)
