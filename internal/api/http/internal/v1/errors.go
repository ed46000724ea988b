package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	EmailTakenCode            = 1001
	EmailTakenMessage         = "email already registered"
	ContactLimitCode          = 1002
	ContactLimitMessage       = "contact method linked to too many accounts"
	InvalidCredentialsCode    = 1003
	InvalidCredentialsMessage = "invalid credentials"
	AccountNotFoundCode       = 1004
	AccountNotFoundMessage    = "account not found"
	AlreadyVerifiedCode       = 1005
	AlreadyVerifiedMessage    = "contact already verified"
	ResendThrottledCode       = 1006
	ResendThrottledMessage    = "too many codes requested, try again later"
	DeliveryFailedCode        = 1007
	DeliveryFailedMessage     = "could not deliver the code, request a resend"
	SessionExpiredCode        = 1008
	SessionExpiredMessage     = "session expired, sign in again"
	InvalidContactCode        = 1009
	InvalidContactMessage     = "invalid contact method"
	NotVerifiedCode           = 1010
	NotVerifiedMessage        = "contact method not verified"

	NoCodeFoundCode        = 2001
	NoCodeFoundMessage     = "no verification code found"
	AlreadyUsedCode        = 2002
	AlreadyUsedMessage     = "verification code already used"
	CodeExpiredCode        = 2003
	CodeExpiredMessage     = "verification code expired"
	MaxAttemptsCode        = 2004
	MaxAttemptsMessage     = "too many attempts, request a new code"
	PurposeMismatchCode    = 2005
	PurposeMismatchMessage = "verification code not valid for this operation"
	IncorrectCodeCode      = 2006
	IncorrectCodeMessage   = "incorrect verification code"
)

type ErrorStruct struct {
	ErrorCode         int    `json:"error_code"`
	ErrorMessage      string `json:"error_message"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
}

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}
