package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/adapters/mongo"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd mongo.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Service handles registration, login and profile updates. Passwords are
// stored as bcrypt hashes only; sessions are signed JWTs carrying the
// caller identity the rest of the system trusts.
type Service struct {
	users  Users
	tokens *TokenIssuer
	logger observability.Logger
}

func NewService(users Users, tokens *TokenIssuer, logger observability.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return errors.Wrap(domain.ErrInvalidInput, "username must not be empty")
	}
	if strings.TrimSpace(in.Email) == "" {
		return errors.Wrap(domain.ErrInvalidInput, "email must not be empty")
	}
	if !emailRegex.MatchString(in.Email) {
		return errors.Wrap(domain.ErrInvalidInput, "email must be a valid email address")
	}
	if in.Password == "" {
		return errors.Wrap(domain.ErrInvalidInput, "password must not be empty")
	}
	if in.Password != in.ConfirmPassword {
		return errors.Wrap(domain.ErrInvalidInput, "passwords must match")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", errors.Mark(err, domain.ErrUpstream)
	}

	u := domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, "", errors.Wrap(domain.ErrInvalidInput, "username and password must not be empty")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.Wrap(domain.ErrInvalidInput, "wrong credentials")
	}

	now := time.Now().UTC()
	if updated, err := s.users.UpdateUser(ctx, u.ID, mongo.UserUpdate{LastLogin: &now}); err == nil {
		u = updated
	}

	token, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile returns the caller's own user record.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

type ProfileUpdate struct {
	Email           *string
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	Password        *string
	ConfirmPassword *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*domain.User, error) {
	if upd.Email != nil {
		if strings.TrimSpace(*upd.Email) == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "email must not be empty")
		}
		if !emailRegex.MatchString(*upd.Email) {
			return nil, errors.Wrap(domain.ErrInvalidInput, "email must be a valid email address")
		}
	}

	stored := mongo.UserUpdate{
		Email:       upd.Email,
		FirstName:   upd.FirstName,
		LastName:    upd.LastName,
		PhoneNumber: upd.PhoneNumber,
	}
	if upd.Password != nil {
		if upd.ConfirmPassword == nil || *upd.Password != *upd.ConfirmPassword {
			return nil, errors.Wrap(domain.ErrInvalidInput, "passwords must match")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcryptCost)
		if err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		h := string(hash)
		stored.PasswordHash = &h
	}

	return s.users.UpdateUser(ctx, userID, stored)
}

// RemoveUser is admin-only; the authorization check comes first so callers
// without the capability cannot probe for user existence.
func (s *Service) RemoveUser(ctx context.Context, caller domain.Caller, userID uuid.UUID) error {
	if !caller.IsAdmin {
		return errors.Wrap(domain.ErrUnauthorized, "only admins can remove users")
	}
	return s.users.DeleteUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.IsAdmin {
		return nil, errors.Wrap(domain.ErrUnauthorized, "only admins can list users")
	}
	return s.users.ListUsers(ctx)
}
