package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrykeep/backend/internal/service"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/signup", h.signUp)
	auth.POST("/signin", h.signIn)
	auth.POST("/refresh", h.refresh)
	auth.POST("/verify", h.verifyCode)
	auth.POST("/password/forgot", h.forgotPassword)
	auth.POST("/password/reset", h.resetPassword)

	authed := auth.Group("", h.accountIdentityMiddleware)
	authed.POST("/resend", h.resendCode)

	verified := authed.Group("", h.verifiedOnlyMiddleware)
	verified.POST("/contact/change", h.requestContactChange)
	verified.POST("/contact/confirm", h.confirmContactChange)
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Contact  string `json:"contact" binding:"required"`
}

type authResponse struct {
	AccessToken          string    `json:"access_token"`
	RefreshToken         uuid.UUID `json:"refresh_token"`
	RequiresVerification bool      `json:"requires_verification,omitempty"`
}

// @Summary Sign up
// @Tags Auth
// @Description Register an account and send a verification code to its contact method
// @ModuleID signUp
// @Accept  json
// @Produce  json
// @Param input body signUpRequest true "signup input"
// @Success 201 {object} authResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Router /auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Accounts.SignUp(c.Request.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		Contact:   req.Contact,
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		AccessToken:          result.Tokens.AccessToken,
		RefreshToken:         result.Tokens.RefreshToken,
		RequiresVerification: result.RequiresVerification,
	})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary Sign in
// @Tags Auth
// @Description Authenticate with email and password
// @ModuleID signIn
// @Accept  json
// @Produce  json
// @Param input body signInRequest true "signin input"
// @Success 200 {object} authResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401 {object} ErrorStruct
// @Router /auth/signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Accounts.SignIn(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken uuid.UUID `json:"refresh_token" binding:"required"`
}

// @Summary Refresh session
// @Tags Auth
// @Description Rotate a refresh token into a fresh token pair
// @ModuleID refresh
// @Accept  json
// @Produce  json
// @Param input body refreshRequest true "refresh input"
// @Success 200 {object} authResponse
// @Failure 401 {object} ErrorStruct
// @Router /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Accounts.RefreshSession(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type verifyCodeRequest struct {
	Destination string `json:"destination" binding:"required"`
	Code        string `json:"code" binding:"required,verifycode"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// @Summary Verify signup code
// @Tags Auth
// @Description Confirm the code sent to a contact method at signup
// @ModuleID verifyCode
// @Accept  json
// @Produce  json
// @Param input body verifyCodeRequest true "verify input"
// @Success 200 {object} statusResponse
// @Failure 400 {object} ErrorStruct
// @Router /auth/verify [post]
func (h *Handler) verifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Accounts.ConfirmSignUp(c.Request.Context(), req.Destination, req.Code); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "verified"})
}

// @Summary Resend signup code
// @Tags Auth
// @Description Issue a fresh verification code for the current account
// @ModuleID resendCode
// @Accept  json
// @Produce  json
// @Success 200 {object} statusResponse
// @Failure 409 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Security UserAuth
// @Router /auth/resend [post]
func (h *Handler) resendCode(c *gin.Context) {
	accountID, err := h.getAccountUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.services.Accounts.ResendCode(c.Request.Context(), accountID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "sent"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type forgotPasswordResponse struct {
	Status        string `json:"status"`
	MaskedContact string `json:"masked_contact,omitempty"`
}

// @Summary Request password reset
// @Tags Auth
// @Description Send a password reset code to the account's verified contact method
// @ModuleID forgotPassword
// @Accept  json
// @Produce  json
// @Param input body forgotPasswordRequest true "forgot input"
// @Success 200 {object} forgotPasswordResponse
// @Failure 502 {object} ErrorStruct
// @Router /auth/password/forgot [post]
func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	masked, err := h.services.Accounts.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	// same acknowledgement whether or not the account exists
	c.JSON(http.StatusOK, forgotPasswordResponse{Status: "accepted", MaskedContact: masked})
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,verifycode"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// @Summary Reset password
// @Tags Auth
// @Description Set a new password after verifying the reset code
// @ModuleID resetPassword
// @Accept  json
// @Produce  json
// @Param input body resetPasswordRequest true "reset input"
// @Success 200 {object} statusResponse
// @Failure 400 {object} ErrorStruct
// @Router /auth/password/reset [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Accounts.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "password updated"})
}

type contactChangeRequest struct {
	Contact string `json:"contact" binding:"required"`
}

// @Summary Request contact change
// @Tags Auth
// @Description Send a verification code to the new contact method
// @ModuleID requestContactChange
// @Accept  json
// @Produce  json
// @Param input body contactChangeRequest true "contact change input"
// @Success 200 {object} statusResponse
// @Failure 409 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Security UserAuth
// @Router /auth/contact/change [post]
func (h *Handler) requestContactChange(c *gin.Context) {
	accountID, err := h.getAccountUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req contactChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Accounts.RequestContactChange(c.Request.Context(), accountID, req.Contact); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "sent"})
}

type contactConfirmRequest struct {
	Contact string `json:"contact" binding:"required"`
	Code    string `json:"code" binding:"required,verifycode"`
}

// @Summary Confirm contact change
// @Tags Auth
// @Description Apply the new contact method after verifying the code sent to it
// @ModuleID confirmContactChange
// @Accept  json
// @Produce  json
// @Param input body contactConfirmRequest true "contact confirm input"
// @Success 200 {object} statusResponse
// @Failure 400 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Security UserAuth
// @Router /auth/contact/confirm [post]
func (h *Handler) confirmContactChange(c *gin.Context) {
	accountID, err := h.getAccountUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req contactConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Accounts.ConfirmContactChange(c.Request.Context(), accountID, req.Contact, req.Code); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "contact updated"})
}
