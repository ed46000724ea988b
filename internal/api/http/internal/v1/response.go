package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pantrykeep/backend/internal/domain"
	"github.com/pantrykeep/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func errorResponse(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, ErrorStruct{ErrorCode: code, ErrorMessage: message})
}

// serviceErrorResponse maps a service-layer failure to the wire error
// envelope. Verification rejections are branched on the typed reason;
// everything unrecognized becomes a generic 500.
func serviceErrorResponse(c *gin.Context, err error) {
	var verifyErr *service.VerifyError
	if errors.As(err, &verifyErr) {
		verifyErrorResponse(c, verifyErr)
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		errorResponse(c, http.StatusConflict, EmailTakenCode, EmailTakenMessage)
	case errors.Is(err, service.ErrContactLimitReached):
		errorResponse(c, http.StatusConflict, ContactLimitCode, ContactLimitMessage)
	case errors.Is(err, service.ErrInvalidCredentials):
		errorResponse(c, http.StatusUnauthorized, InvalidCredentialsCode, InvalidCredentialsMessage)
	case errors.Is(err, service.ErrAccountNotFound):
		errorResponse(c, http.StatusNotFound, AccountNotFoundCode, AccountNotFoundMessage)
	case errors.Is(err, service.ErrAlreadyVerified):
		errorResponse(c, http.StatusConflict, AlreadyVerifiedCode, AlreadyVerifiedMessage)
	case errors.Is(err, service.ErrNoContact):
		errorResponse(c, http.StatusConflict, NotVerifiedCode, NotVerifiedMessage)
	case errors.Is(err, service.ErrResendThrottled):
		errorResponse(c, http.StatusTooManyRequests, ResendThrottledCode, ResendThrottledMessage)
	case errors.Is(err, service.ErrDeliveryFailed):
		errorResponse(c, http.StatusBadGateway, DeliveryFailedCode, DeliveryFailedMessage)
	case errors.Is(err, service.ErrSessionExpired):
		errorResponse(c, http.StatusUnauthorized, SessionExpiredCode, SessionExpiredMessage)
	case errors.Is(err, domain.ErrInvalidContact):
		errorResponse(c, http.StatusBadRequest, InvalidContactCode, InvalidContactMessage)
	default:
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode, UnknownErrorMessage)
	}
}

func verifyErrorResponse(c *gin.Context, verifyErr *service.VerifyError) {
	resp := ErrorStruct{ErrorCode: UnknownErrorCode, ErrorMessage: UnknownErrorMessage}

	switch verifyErr.Reason {
	case service.ReasonNoCodeFound:
		resp.ErrorCode, resp.ErrorMessage = NoCodeFoundCode, NoCodeFoundMessage
	case service.ReasonAlreadyUsed:
		resp.ErrorCode, resp.ErrorMessage = AlreadyUsedCode, AlreadyUsedMessage
	case service.ReasonExpired:
		resp.ErrorCode, resp.ErrorMessage = CodeExpiredCode, CodeExpiredMessage
	case service.ReasonMaxAttempts:
		resp.ErrorCode, resp.ErrorMessage = MaxAttemptsCode, MaxAttemptsMessage
	case service.ReasonPurposeMismatch:
		resp.ErrorCode, resp.ErrorMessage = PurposeMismatchCode, PurposeMismatchMessage
	case service.ReasonIncorrectCode:
		remaining := verifyErr.RemainingAttempts
		resp.ErrorCode, resp.ErrorMessage = IncorrectCodeCode, IncorrectCodeMessage
		resp.RemainingAttempts = &remaining
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		response := ValidationErrorStruct{
			ErrorCode:    6000,
			ErrorMessage: "Validation error",
			Errors:       out,
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, response)
		return
	}

	errorResponse(c, http.StatusBadRequest, UnknownErrorCode, "malformed request body")
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	case "e164phone":
		return "Phone number must be in E.164 format"
	case "verifycode":
		return "Code must be 6 digits"
	}
	return tag
}
