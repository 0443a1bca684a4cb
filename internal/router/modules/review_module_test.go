package modules

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/application"
	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
	handlers "github.com/roamtrails/tours-api/internal/interface/http"
	"github.com/roamtrails/tours-api/internal/query"
	"github.com/roamtrails/tours-api/pkg/helpers"
)

type stubReviewRepo struct {
	repository.ReviewRepository
}

func (s *stubReviewRepo) FindAll(context.Context, query.FindSpec) ([]entity.Review, error) {
	return []entity.Review{}, nil
}

func (s *stubReviewRepo) FindByID(context.Context, string) (*entity.Review, error) {
	return &entity.Review{ID: primitive.NewObjectID()}, nil
}

func (s *stubReviewRepo) GetAuthor(context.Context, *entity.Review) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

type emptyUserLoader struct{}

func (emptyUserLoader) GetByID(context.Context, string) (*entity.User, error) {
	return nil, errors.New("not found")
}

func newReviewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &stubReviewRepo{}
	svc := application.NewReviewService(repo, nil, nil)
	h := handlers.NewReviewHandler(repo, svc)

	r := gin.New()
	mod := NewReviewModule(h, helpers.NewJWTManager("test-secret", time.Hour), emptyUserLoader{})
	mod.Register(r.Group("/api/v1"))
	return r
}

// Review reads are public; writes require a session.
func TestReviewRoutesAuthPolicy(t *testing.T) {
	r := newReviewRouter()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list is public", http.MethodGet, "/api/v1/reviews", http.StatusOK},
		{"get is public", http.MethodGet, "/api/v1/reviews/abc", http.StatusOK},
		{"create needs login", http.MethodPost, "/api/v1/reviews", http.StatusUnauthorized},
		{"update needs login", http.MethodPatch, "/api/v1/reviews/abc", http.StatusUnauthorized},
		{"delete needs login", http.MethodDelete, "/api/v1/reviews/abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}
