package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
	"github.com/roamtrails/tours-api/pkg/helpers"
	"github.com/roamtrails/tours-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or has expired")
	ErrMailDispatch       = errors.New("could not dispatch email")
)

// passwordChangeSkew backdates password_changed_at so a token minted in the
// same instant as a password change is still treated as stale.
const passwordChangeSkew = time.Second

// EmailQueue is satisfied by helpers.RabbitPublisher.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService owns credential issuance and the password lifecycle.
type AuthService struct {
	Repo     repository.UserRepository
	JWT      *helpers.JWTManager
	Queue    EmailQueue
	Logger   *logrus.Logger
	ResetTTL time.Duration
	ResetURL string
	MeURL    string
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, queue EmailQueue, logger *logrus.Logger, resetTTL time.Duration, resetURL, meURL string) *AuthService {
	return &AuthService{
		Repo:     repo,
		JWT:      jwt,
		Queue:    queue,
		Logger:   logger,
		ResetTTL: resetTTL,
		ResetURL: resetURL,
		MeURL:    meURL,
	}
}

// TokenResult carries an issued access token and its expiry.
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) issue(userID string) (TokenResult, error) {
	tok, exp, err := s.JWT.GenerateToken(userID)
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{Token: tok, ExpiresAt: exp}, nil
}

// Signup creates a user with a hashed password and queues the welcome email.
// The confirmation field never reaches this method; it exists only in the
// request DTO.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*entity.User, TokenResult, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenResult{}, err
	}
	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenResult{}, ErrEmailTaken
		}
		return nil, TokenResult{}, err
	}

	// Welcome mail is fire-and-forget relative to the response.
	if s.Queue != nil {
		job := mailer.EmailJob{To: u.Email, Template: mailer.TemplateWelcome, Data: map[string]any{
			"Name":       u.Name,
			"AccountURL": s.MeURL,
		}}
		if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
		}
	}

	res, err := s.issue(u.ID.Hex())
	return u, res, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, TokenResult{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenResult{}, ErrInvalidCredentials
	}
	res, err := s.issue(u.ID.Hex())
	return u, res, err
}

// ForgotPassword issues a one-time reset token and emails it. Unknown emails
// return nil so the endpoint answer does not reveal account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	tok, err := helpers.NewResetToken(s.ResetTTL)
	if err != nil {
		return err
	}
	if err := s.Repo.SetResetToken(ctx, u.ID.Hex(), tok.Hashed, tok.ExpiresAt); err != nil {
		return err
	}

	job := mailer.EmailJob{To: u.Email, Template: mailer.TemplatePasswordReset, Data: map[string]any{
		"Name":      u.Name,
		"ResetURL":  s.ResetURL + "/" + tok.Raw,
		"ExpiresIn": s.ResetTTL.String(),
	}}
	if s.Queue == nil {
		return ErrMailDispatch
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil {
		// Partial state must not linger: a token nobody received is only risk.
		if cerr := s.Repo.ClearResetToken(ctx, u.ID.Hex()); cerr != nil && s.Logger != nil {
			s.Logger.WithError(cerr).WithField("user_id", u.ID.Hex()).Error("clear reset token failed")
		}
		return ErrMailDispatch
	}
	return nil
}

// ResetPassword consumes a raw reset token. The stored hash and expiry gate
// the lookup; on success the reset fields are cleared, making the token
// single-use.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) (*entity.User, TokenResult, error) {
	hashed := helpers.HashResetToken(rawToken)
	u, err := s.Repo.GetByResetToken(ctx, hashed, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenResult{}, ErrResetTokenInvalid
		}
		return nil, TokenResult{}, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenResult{}, err
	}
	changedAt := time.Now().Add(-passwordChangeSkew)
	if err := s.Repo.UpdatePassword(ctx, u.ID.Hex(), hash, changedAt); err != nil {
		return nil, TokenResult{}, err
	}

	res, err := s.issue(u.ID.Hex())
	return u, res, err
}

// ChangePassword rotates the password of an authenticated user after
// re-verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, password string) (TokenResult, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return TokenResult{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return TokenResult{}, ErrInvalidCredentials
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return TokenResult{}, err
	}
	changedAt := time.Now().Add(-passwordChangeSkew)
	if err := s.Repo.UpdatePassword(ctx, u.ID.Hex(), hash, changedAt); err != nil {
		return TokenResult{}, err
	}
	return s.issue(u.ID.Hex())
}
