package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	repo "github.com/oksasatya/recruitment-accounts/internal/domain/repository"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

// AuthService runs signup, login, Google sign-in, logout and account
// deletion, and validates bearer tokens for every authenticated route.
type AuthService struct {
	Repo     repo.UserRepository
	Hasher   *helpers.PasswordHasher
	Tokens   *helpers.JWTManager
	Ledger   repo.RevocationLedger
	Identity IdentityVerifier
	Notifier Notifier
	Index    ProfileIndex
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, hasher *helpers.PasswordHasher, tokens *helpers.JWTManager, ledger repo.RevocationLedger, identity IdentityVerifier, notifier Notifier, index ProfileIndex, logger *logrus.Logger) *AuthService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if index == nil {
		index = nopIndex{}
	}
	return &AuthService{
		Repo:     users,
		Hasher:   hasher,
		Tokens:   tokens,
		Ledger:   ledger,
		Identity: identity,
		Notifier: notifier,
		Index:    index,
		Logger:   logger,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	AdmissionNumber string
	Year            string
	Domain          string
}

// AuthResult is returned by flows that issue a token.
type AuthResult struct {
	Profile   *entity.Profile
	Token     string
	ExpiresAt time.Time
	// Created is set when Google sign-in made a new account.
	Created bool
}

// Signup stores a new account. It deliberately issues no token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.Profile, error) {
	if !validation.IsEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, s.storeFailure("signup lookup", err)
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, ErrInvalidPassword
		}
		return nil, s.storeFailure("hash password", err)
	}

	u := &entity.User{
		Email:           in.Email,
		PasswordHash:    hash,
		Name:            in.Name,
		AdmissionNumber: in.AdmissionNumber,
		Year:            in.Year,
		Domain:          in.Domain,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, s.storeFailure("create user", err)
	}

	p := u.Profile()
	s.afterCreate(ctx, p)
	return p, nil
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if !validation.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.storeFailure("login lookup", err)
	}
	// accounts created through Google sign-in have no local password
	if !u.HasLocalPassword() {
		return nil, ErrBadCredentials
	}
	if !s.Hasher.Verify(ctx, password, u.PasswordHash) {
		if ctx.Err() != nil {
			return nil, s.storeFailure("verify password", ctx.Err())
		}
		return nil, ErrBadCredentials
	}
	return s.issue(u, false)
}

// GoogleAuth signs in with a Google identity, creating the account on first use.
// New accounts get no local password.
func (s *AuthService) GoogleAuth(ctx context.Context, a GoogleAssertion) (*AuthResult, error) {
	id, err := s.Identity.VerifyGoogle(ctx, a)
	if err != nil {
		var appErr *Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, wrap(ErrIdentityRejected, err)
	}

	u, err := s.Repo.GetByEmail(ctx, id.Email)
	if err == nil {
		return s.issue(u, false)
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, s.storeFailure("google lookup", err)
	}

	u = &entity.User{Email: id.Email, Name: id.Name}
	if err := s.Repo.Create(ctx, u); err != nil {
		if !errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, s.storeFailure("create google user", err)
		}
		// created concurrently by another request
		if u, err = s.Repo.GetByEmail(ctx, id.Email); err != nil {
			return nil, s.storeFailure("google lookup", err)
		}
		return s.issue(u, false)
	}
	s.afterCreate(ctx, u.Profile())
	return s.issue(u, true)
}

// Logout revokes token without checking it first; any presented string is
// recorded, and the ledger keeps it until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	if err := s.Ledger.Revoke(ctx, token, s.Tokens.ExpiryHint(token)); err != nil {
		return s.storeFailure("revoke token", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("token", helpers.Fingerprint(token)).Debug("token revoked")
	}
	return nil
}

// Authenticate returns the user id a token was issued for. The token must
// carry a valid signature, be unexpired and be absent from the ledger.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, helpers.ErrTokenExpired):
			return "", tokenInvalid(ReasonExpired)
		case errors.Is(err, helpers.ErrTokenBadSignature):
			return "", tokenInvalid(ReasonBadSignature)
		default:
			return "", tokenInvalid(ReasonMalformed)
		}
	}
	revoked, err := s.Ledger.IsRevoked(ctx, token)
	if err != nil {
		return "", s.storeFailure("revocation lookup", err)
	}
	if revoked {
		return "", tokenInvalid(ReasonRevoked)
	}
	return claims.UserID, nil
}

// DeleteAccount removes targetID. Only the account owner may do so.
func (s *AuthService) DeleteAccount(ctx context.Context, requesterID, targetID string) error {
	if requesterID == "" || requesterID != targetID {
		return ErrForbidden
	}
	u, err := s.Repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.storeFailure("delete lookup", err)
	}
	if err := s.Repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.storeFailure("delete user", err)
	}

	if err := s.Index.Remove(ctx, targetID); err != nil {
		s.warn(err, "remove from index failed", targetID)
	}
	if err := s.Notifier.AccountDeleted(ctx, u.Email, u.Name); err != nil {
		s.warn(err, "enqueue account deleted email failed", targetID)
	}
	return nil
}

func (s *AuthService) issue(u *entity.User, created bool) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, s.storeFailure("issue token", err)
	}
	return &AuthResult{Profile: u.Profile(), Token: token, ExpiresAt: exp, Created: created}, nil
}

// afterCreate indexes and greets a new account; failures only get logged.
func (s *AuthService) afterCreate(ctx context.Context, p *entity.Profile) {
	if err := s.Index.Index(ctx, p); err != nil {
		s.warn(err, "index profile failed", p.ID)
	}
	if err := s.Notifier.Welcome(ctx, p); err != nil {
		s.warn(err, "enqueue welcome email failed", p.ID)
	}
}

func (s *AuthService) storeFailure(op string, err error) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("op", op).Error("account operation failed")
	}
	return wrap(ErrStoreFailure, err)
}

func (s *AuthService) warn(err error, msg, userID string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}
