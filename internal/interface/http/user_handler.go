package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/interface/middleware"
	"github.com/roamtrails/tours-api/pkg/response"
	"github.com/roamtrails/tours-api/pkg/validation"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type updateMeRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=60"`
	Photo string `json:"photo" binding:"omitempty,max=255"`

	// Present only to reject credential changes on this route.
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateMe handles name and photo only. Password fields are refused outright
// so callers cannot sidestep the change-password flow.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		response.Error(c, http.StatusBadRequest, "this route is not for password updates, use /change-password")
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	updated, err := h.Svc.UpdateProfile(c.Request.Context(), user.ID.Hex(), application.UpdateProfileInput{
		Name:  req.Name,
		Photo: req.Photo,
	})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "could not update the profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": updated})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	if err := h.Svc.Deactivate(c.Request.Context(), user.ID.Hex()); err != nil {
		response.Error(c, http.StatusInternalServerError, "could not deactivate the account")
		return
	}
	response.NoContent(c)
}

// CreateUser exists so the admin collection route answers instead of 404ing.
func (h *UserHandler) CreateUser(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "this route does not create users, use /users/signup")
}
