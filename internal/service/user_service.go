package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Credentials is a username/password pair as supplied by a client. Nil
// pointers mean the field was absent; Invalid holds decoding errors.
type Credentials struct {
	Username *string
	Password *string
	Invalid  *domain.ValidationError
}

// UserService provides registration and login.
type UserService interface {
	// Register validates creds and creates a new account.
	// Field problems, including a taken username, are a *domain.ValidationError.
	Register(ctx context.Context, creds Credentials) (*domain.User, error)

	// Login checks creds and issues a token pair.
	// Returns auth.ErrInvalidCredentials when no account matches.
	Login(ctx context.Context, creds Credentials) (*auth.TokenPair, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	logger     *slog.Logger
	now        func() time.Time
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore:  userStore,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger.With("component", "user_service"),
		now:        time.Now,
	}
}

// Register creates a new account.
func (s *UserServiceImpl) Register(ctx context.Context, creds Credentials) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var v domain.ValidationError
	v.Merge(creds.Invalid)
	domain.ValidateCredentials(creds.Username, creds.Password, &v)

	if !v.Has("username") {
		_, err := s.userStore.GetByUsername(ctx, *creds.Username)
		switch {
		case err == nil:
			v.Add("username", domain.MsgUsernameExists)
		case !errors.Is(err, store.ErrUserNotFound):
			log.Error("failed to check username availability", "error", err)
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	if err := v.Err(); err != nil {
		log.Debug("rejected registration", "error", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(*creds.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(*creds.Username, hash, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("username taken concurrently", "username", user.Username)
			var taken domain.ValidationError
			taken.Add("username", domain.MsgUsernameExists)
			return nil, &taken
		}
		log.Error("failed to save user to database", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// Login verifies the password for the named user and issues a token pair.
func (s *UserServiceImpl) Login(ctx context.Context, creds Credentials) (*auth.TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var v domain.ValidationError
	v.Merge(creds.Invalid)
	requireField(&v, "username", creds.Username)
	requireField(&v, "password", creds.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByUsername(ctx, *creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown user")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to load user for login", "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, *creds.Password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue tokens", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return pair, nil
}

func requireField(v *domain.ValidationError, field string, value *string) {
	if v.Has(field) {
		return
	}
	switch {
	case value == nil:
		v.Add(field, domain.MsgRequired)
	case *value == "":
		v.Add(field, domain.MsgBlank)
	}
}
