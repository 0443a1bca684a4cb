package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
	"github.com/roamtrails/tours-api/pkg/helpers"
	"github.com/roamtrails/tours-api/pkg/response"
	"github.com/roamtrails/tours-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Cookie *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, cookie *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookie: cookie}
}

type signupRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=60"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type changePasswordRequest struct {
	PasswordCurrent string `json:"password_current" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, tok, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not create account")
		return
	}
	h.Cookie.SetToken(c, tok.Token, tok.ExpiresAt)
	response.SuccessToken(c, http.StatusCreated, tok.Token, gin.H{"user": u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not log in")
		return
	}
	h.Cookie.SetToken(c, tok.Token, tok.ExpiresAt)
	response.SuccessToken(c, http.StatusOK, tok.Token, gin.H{"user": u})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookie.Clear(c)
	response.Success(c, http.StatusOK, nil)
}

// ForgotPassword answers the same way for known and unknown emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrMailDispatch) {
			response.Error(c, http.StatusInternalServerError, "there was an error sending the email, try again later")
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not process the request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "if the account exists, a reset link is on its way"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, tok, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, application.ErrResetTokenInvalid) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not reset the password")
		return
	}
	h.Cookie.SetToken(c, tok.Token, tok.ExpiresAt)
	response.SuccessToken(c, http.StatusOK, tok.Token, gin.H{"user": u})
}

// ChangePassword requires a fresh proof of the current password even though
// the caller is already authenticated.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	tok, err := h.Svc.ChangePassword(c.Request.Context(), user.ID.Hex(), req.PasswordCurrent, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "your current password is wrong")
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not change the password")
		return
	}
	h.Cookie.SetToken(c, tok.Token, tok.ExpiresAt)
	response.SuccessToken(c, http.StatusOK, tok.Token, nil)
}
