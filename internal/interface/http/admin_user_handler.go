package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

// userUpdatable is the admin allow-list. Passwords stay out: there is no
// admin path that writes credentials.
var userUpdatable = []string{"name", "email", "role", "photo", "active"}

// AdminUserHandler is the factory-backed collection CRUD for users. Reads go
// through the repository's default scope, so deactivated accounts stay
// hidden here too.
type AdminUserHandler struct {
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	remove gin.HandlerFunc
}

func NewAdminUserHandler(repo repository.UserRepository) *AdminUserHandler {
	return &AdminUserHandler{
		list:   ListHandler[entity.User](repo, nil),
		get:    GetHandler[entity.User](repo, nil),
		update: UpdateHandler[entity.User](repo, userUpdatable, checkUserUpdate, nil),
		remove: DeleteHandler[entity.User](repo, nil),
	}
}

func (h *AdminUserHandler) List(c *gin.Context)   { h.list(c) }
func (h *AdminUserHandler) Get(c *gin.Context)    { h.get(c) }
func (h *AdminUserHandler) Update(c *gin.Context) { h.update(c) }
func (h *AdminUserHandler) Delete(c *gin.Context) { h.remove(c) }

func checkUserUpdate(set bson.M) error {
	if v, ok := set["role"]; ok {
		switch v {
		case entity.RoleUser, entity.RoleGuide, entity.RoleLeadGuide, entity.RoleAdmin:
		default:
			return errors.New("role must be user, guide, lead-guide or admin")
		}
	}
	return nil
}
