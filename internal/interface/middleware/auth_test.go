package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

type fakeUserLoader struct {
	users map[string]*entity.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newProtectedRouter(jwt *helpers.JWTManager, loader UserLoader, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := []gin.HandlerFunc{Protect(jwt, loader)}
	if len(roles) > 0 {
		chain = append(chain, RestrictTo(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.String(http.StatusInternalServerError, "no user in context")
			return
		}
		c.String(http.StatusOK, u.ID.Hex())
	})
	r.GET("/protected", chain...)
	return r
}

func do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	uid := primitive.NewObjectID()
	loader := &fakeUserLoader{users: map[string]*entity.User{
		uid.Hex(): {ID: uid, Role: entity.RoleUser, Active: true},
	}}

	token, _, err := jwt.GenerateToken(uid.Hex())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	r := newProtectedRouter(jwt, loader)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := do(r, tt.header).Code; got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProtectUnknownUser(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	loader := &fakeUserLoader{users: map[string]*entity.User{}}

	token, _, err := jwt.GenerateToken(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := newProtectedRouter(jwt, loader)
	if got := do(r, "Bearer "+token).Code; got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for deleted user", got)
	}
}

func TestProtectStaleToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	uid := primitive.NewObjectID()

	token, _, err := jwt.GenerateToken(uid.Hex())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Password changed after the token was issued.
	loader := &fakeUserLoader{users: map[string]*entity.User{
		uid.Hex(): {ID: uid, Role: entity.RoleUser, PasswordChangedAt: time.Now().Add(time.Minute)},
	}}

	r := newProtectedRouter(jwt, loader)
	if got := do(r, "Bearer "+token).Code; got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for stale token", got)
	}
}

func TestRestrictTo(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	uid := primitive.NewObjectID()
	loader := &fakeUserLoader{users: map[string]*entity.User{
		uid.Hex(): {ID: uid, Role: entity.RoleUser},
	}}

	token, _, err := jwt.GenerateToken(uid.Hex())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{"role allowed", []string{entity.RoleUser, entity.RoleAdmin}, http.StatusOK},
		{"role denied", []string{entity.RoleAdmin, entity.RoleLeadGuide}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProtectedRouter(jwt, loader, tt.roles...)
			if got := do(r, "Bearer "+token).Code; got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}
