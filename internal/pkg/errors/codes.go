package errors

// Error codes.
const (
	CodeAuthFormat    = "AUTH_FORMAT"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeNotAuthorized = "NOT_AUTHORIZED"
	CodeValidation    = "VALIDATION"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL"
)

// Messages returned to callers.
const (
	MsgAuthFormat    = "Authorization header requires a bearer token"
	MsgInvalidToken  = "Invalid bearer token"
	MsgNotAuthorized = "Not authorized"
)

// AuthFormatError reports a malformed Authorization header.
func AuthFormatError() *AppError {
	return Unauthorized(CodeAuthFormat, MsgAuthFormat)
}

// InvalidTokenError reports a well-formed bearer token that matches no application.
func InvalidTokenError() *AppError {
	return Unauthorized(CodeInvalidToken, MsgInvalidToken)
}

// NotAuthorizedError reports that the calling application may not read a field.
func NotAuthorizedError() *AppError {
	return Forbidden(CodeNotAuthorized, MsgNotAuthorized)
}

// ValidationError reports a violated domain rule. No write has been issued.
func ValidationError(message string) *AppError {
	return BadRequest(CodeValidation, message)
}
