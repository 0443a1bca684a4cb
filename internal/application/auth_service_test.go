package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/internal/query"
	"github.com/roamtrails/tours-api/pkg/helpers"
	"github.com/roamtrails/tours-api/pkg/mailer"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	byID map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}}
}

func (f *fakeUserRepo) FindAll(context.Context, query.FindSpec) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUserRepo) InsertOne(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := f.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateByID(_ context.Context, id string, set bson.M) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) DeleteByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.byID, id)
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.Role = entity.RoleUser
	u.Active = true
	f.byID[u.ID.Hex()] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok || !u.Active {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) && u.Active {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, hashed string, now time.Time) (*entity.User, error) {
	for _, u := range f.byID {
		if u.PasswordResetToken == hashed && u.PasswordResetExpires.After(now) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id, hashed string, expires time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetToken = hashed
	u.PasswordResetExpires = expires
	return nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetToken = ""
	u.PasswordResetExpires = time.Time{}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	u.PasswordChangedAt = changedAt
	u.PasswordResetToken = ""
	u.PasswordResetExpires = time.Time{}
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, set bson.M) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name, ok := set["name"].(string); ok {
		u.Name = name
	}
	if photo, ok := set["photo"].(string); ok {
		u.Photo = photo
	}
	return u, nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = false
	return nil
}

// fakeQueue records published jobs, optionally failing.
type fakeQueue struct {
	jobs []mailer.EmailJob
	fail bool
}

func (q *fakeQueue) PublishJSON(_ context.Context, body any) error {
	if q.fail {
		return errors.New("broker down")
	}
	if job, ok := body.(mailer.EmailJob); ok {
		q.jobs = append(q.jobs, job)
	}
	return nil
}

func newAuthService(repo repository.UserRepository, queue EmailQueue) *AuthService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, jwt, queue, nil, 10*time.Minute, "http://example.test/reset-password", "http://example.test/me")
}

func TestSignup(t *testing.T) {
	repo := newFakeUserRepo()
	queue := &fakeQueue{}
	svc := newAuthService(repo, queue)
	ctx := context.Background()

	u, tok, err := svc.Signup(ctx, "Alice", "alice@example.test", "pass12345")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Password == "pass12345" {
		t.Fatal("plaintext password stored")
	}
	if !helpers.CompareHashAndPassword(u.Password, "pass12345") {
		t.Fatal("stored hash does not verify")
	}
	if tok.Token == "" {
		t.Fatal("no token issued")
	}
	if len(queue.jobs) != 1 || queue.jobs[0].Template != mailer.TemplateWelcome {
		t.Fatalf("welcome email not queued: %+v", queue.jobs)
	}

	// Same email again.
	if _, _, err := svc.Signup(ctx, "Alice 2", "alice@example.test", "pass12345"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate signup err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeQueue{})
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "Bob", "bob@example.test", "pass12345"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, tok, err := svc.Login(ctx, "bob@example.test", "pass12345"); err != nil || tok.Token == "" {
		t.Fatalf("Login = (%v, %q), want token", err, tok.Token)
	}
	if _, _, err := svc.Login(ctx, "bob@example.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.test", "pass12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	queue := &fakeQueue{}
	svc := newAuthService(repo, queue)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Carol", "carol@example.test", "oldpass123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	queue.jobs = nil

	if err := svc.ForgotPassword(ctx, "carol@example.test"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(queue.jobs) != 1 || queue.jobs[0].Template != mailer.TemplatePasswordReset {
		t.Fatalf("reset email not queued: %+v", queue.jobs)
	}
	resetURL, _ := queue.jobs[0].Data["ResetURL"].(string)
	raw := resetURL[strings.LastIndex(resetURL, "/")+1:]
	if raw == "" {
		t.Fatalf("no token in reset URL %q", resetURL)
	}
	if u.PasswordResetToken == raw {
		t.Fatal("raw token stored instead of its hash")
	}

	reset, tok, err := svc.ResetPassword(ctx, raw, "newpass123")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if reset.ID != u.ID || tok.Token == "" {
		t.Fatal("reset did not issue a session for the owner")
	}
	if _, _, err := svc.Login(ctx, "carol@example.test", "newpass123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "carol@example.test", "oldpass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}

	// Token is single-use.
	if _, _, err := svc.ResetPassword(ctx, raw, "another123"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("reused token err = %v, want ErrResetTokenInvalid", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), &fakeQueue{})
	if err := svc.ForgotPassword(context.Background(), "ghost@example.test"); err != nil {
		t.Fatalf("unknown email should not error: %v", err)
	}
}

func TestForgotPasswordDispatchFailureClearsToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeQueue{fail: true})
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Dave", "dave@example.test", "pass12345")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "dave@example.test"); !errors.Is(err, ErrMailDispatch) {
		t.Fatalf("err = %v, want ErrMailDispatch", err)
	}
	if u.PasswordResetToken != "" || !u.PasswordResetExpires.IsZero() {
		t.Fatal("reset state not cleared after dispatch failure")
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, &fakeQueue{})
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Eve", "eve@example.test", "oldpass123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.ChangePassword(ctx, u.ID.Hex(), "wrong", "newpass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password err = %v, want ErrInvalidCredentials", err)
	}
	tok, err := svc.ChangePassword(ctx, u.ID.Hex(), "oldpass123", "newpass123")
	if err != nil || tok.Token == "" {
		t.Fatalf("ChangePassword = (%q, %v), want fresh token", tok.Token, err)
	}
	if u.PasswordChangedAt.IsZero() || !u.PasswordChangedAt.Before(time.Now()) {
		t.Fatal("password_changed_at not backdated")
	}
}
