// Package services contains server-side business logic. UserService covers
// accounts, session tokens and the password reset flow; TaskService covers
// per-user task management.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
//   - Register / RegisterAdmin: create users and return a session token
//   - Login: verify credentials and mint a session token
//   - ForgotPassword / ResetPassword: the single-use reset token flow
//   - Authenticate / Authorize: checks used by the transport guards
type UserService struct {
	repomanager   repomanager.RepositoryManager
	tokens        *auth.TokenManager
	hasher        auth.PasswordHasher
	mailer        mailer.Mailer
	resetValidity time.Duration
	resetURLBase  string
	mailTimeout   time.Duration
	now           func() time.Time
	log           logging.Logger
}

func NewUserService(
	m repomanager.RepositoryManager,
	tokens *auth.TokenManager,
	hasher auth.PasswordHasher,
	mail mailer.Mailer,
	cfg *config.Config,
	log logging.Logger,
) *UserService {
	return &UserService{
		repomanager:   m,
		tokens:        tokens,
		hasher:        hasher,
		mailer:        mail,
		resetValidity: cfg.ResetTokenValidityDuration,
		resetURLBase:  cfg.ResetURLBase,
		mailTimeout:   cfg.MailSendTimeout,
		now:           time.Now,
		log:           log.With("module", "users"),
	}
}

// WithClock replaces the time source used for reset token expiry.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// Register creates a regular user and returns a session token for it.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (string, error) {
	user, err := s.createUser(ctx, username, email, password, common.RoleUser)
	if err != nil {
		return "", err
	}
	return s.issue(user)
}

// RegisterAdmin is Register with the admin role. Callers must already be
// authorized as admin.
func (s *UserService) RegisterAdmin(ctx context.Context, username, email, password string) (string, error) {
	user, err := s.createUser(ctx, username, email, password, common.RoleAdmin)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "admin registered", "user_id", user.ID)
	return s.issue(user)
}

// BootstrapAdmin makes sure an admin with the given email exists. An
// existing account with that email is left untouched.
func (s *UserService) BootstrapAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.createUser(ctx, username, email, password, common.RoleAdmin)
	if errors.Is(err, common.ErrorAlreadyExists) {
		s.log.Debug(ctx, "bootstrap admin already exists", "email", normalizeEmail(email))
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info(ctx, "bootstrap admin created", "email", normalizeEmail(email))
	return nil
}

func (s *UserService) createUser(ctx context.Context, username, email, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{UserName: username, Email: email, PasswordHash: hash, Role: role}
	u, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.log.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}
	return u, nil
}

// Login verifies the password and returns a new session token.
// Unknown emails yield common.ErrorUserNotFound, wrong passwords
// common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUserNotFound
		}
		s.log.Error(ctx, "error searching user", "error", err)
		return "", common.ErrorInternal
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}
	return s.issue(user)
}

// ForgotPassword stores a fresh reset token for the user and mails the
// reset link. The token stays stored even if delivery fails, in which case
// common.ErrorDelivery is returned.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUserNotFound
		}
		s.log.Error(ctx, "error searching user", "error", err)
		return common.ErrorInternal
	}

	token, err := common.MakeRandHexString(common.ResetTokenSize)
	if err != nil {
		s.log.Error(ctx, "error generating reset token", "error", err)
		return common.ErrorInternal
	}

	expires := s.now().Add(s.resetValidity)
	if err := s.repomanager.Users().SetResetToken(ctx, user.ID, token, expires); err != nil {
		s.log.Error(ctx, "error storing reset token", "error", err)
		return common.ErrorInternal
	}

	if err := s.sendMail(ctx, user.Email, mailer.ResetSubject, mailer.ResetBody(s.resetURLBase, token)); err != nil {
		s.log.Error(ctx, "error sending reset email", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorDelivery, err)
	}
	return nil
}

// sendMail bounds delivery by mailTimeout when one is configured.
func (s *UserService) sendMail(ctx context.Context, to, subject, body string) error {
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}
	return s.mailer.Send(ctx, to, subject, body)
}

// ResetPassword consumes token and sets the new password. Unknown, already
// used and expired tokens all yield common.ErrInvalidOrExpiredToken.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return common.ErrInvalidOrExpiredToken
	}
	if newPassword == "" {
		return common.ErrorValidation
	}

	hash, err := s.hashPassword(ctx, newPassword)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users().ConsumeResetToken(ctx, token, hash, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidOrExpiredToken
		}
		s.log.Error(ctx, "error consuming reset token", "error", err)
		return common.ErrorInternal
	}
	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Authenticate validates an Authorization header value of the form
// "Bearer <token>". Every failure collapses into common.ErrorUnauthorized;
// the underlying reason is only logged.
func (s *UserService) Authenticate(ctx context.Context, header string) (*auth.Claims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug(ctx, "token rejected", "reason", err)
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// Authorize checks that claims carry role.
func (s *UserService) Authorize(claims *auth.Claims, role string) error {
	if claims == nil {
		return common.ErrorUnauthorized
	}
	if !claims.HasRole(role) {
		return common.ErrorForbidden
	}
	return nil
}

func (s *UserService) issue(user *models.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *UserService) hashPassword(ctx context.Context, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrorValidation
		}
		s.log.Error(ctx, "error hashing password", "error", err)
		return "", common.ErrorInternal
	}
	return hash, nil
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
