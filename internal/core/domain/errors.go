package domain

// ErrorKind classifies failures so the transport layer can pick a status code
// without knowing every individual error.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "internal"
	}
}

// Error is a client-facing failure. Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRequiredFields     = &Error{Kind: KindValidation, Code: "REQUIRED_FIELDS", Message: "All fields are required."}
	ErrPasswordTooShort   = &Error{Kind: KindValidation, Code: "PASSWORD_MIN_LENGTH", Message: "Password must be at least 6 characters long."}
	ErrPasswordTooLong    = &Error{Kind: KindValidation, Code: "PASSWORD_MAX_LENGTH", Message: "Password must be at most 72 bytes long."}
	ErrInvalidImageFormat = &Error{Kind: KindValidation, Code: "INVALID_IMAGE_FORMAT", Message: "Invalid image format."}
	ErrImageTooLarge      = &Error{Kind: KindValidation, Code: "IMAGE_TOO_LARGE", Message: "Image exceeds the maximum allowed size."}
	ErrInvalidID          = &Error{Kind: KindValidation, Code: "INVALID_ID", Message: "Invalid identifier."}

	ErrTokenMissing        = &Error{Kind: KindAuthentication, Code: "TOKEN_MISSING", Message: "Access token required."}
	ErrTokenInvalid        = &Error{Kind: KindAuthentication, Code: "TOKEN_INVALID", Message: "Invalid access token."}
	ErrTokenExpired        = &Error{Kind: KindAuthentication, Code: "TOKEN_EXPIRED", Message: "Access token expired. Please refresh your token."}
	ErrAuthFailed          = &Error{Kind: KindAuthentication, Code: "AUTH_FAILED", Message: "Authentication failed."}
	ErrInvalidCredentials  = &Error{Kind: KindAuthentication, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials."}
	ErrRefreshTokenInvalid = &Error{Kind: KindAuthentication, Code: "REFRESH_TOKEN_INVALID", Message: "Invalid or expired refresh token."}

	ErrUserNotFound = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found."}
	ErrEmailExists  = &Error{Kind: KindConflict, Code: "EMAIL_ALREADY_EXISTS", Message: "Email already registered."}
	ErrRateLimited  = &Error{Kind: KindRateLimit, Code: "RATE_LIMIT_EXCEEDED", Message: "Too many requests, please try again later."}

	ErrUpload   = &Error{Kind: KindInternal, Code: "UPLOAD_FAILED", Message: "Image upload failed."}
	ErrInternal = &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "Internal server error."}
)

// NewValidationError builds a request validation failure with a custom message.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: msg}
}
