package sqlite

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"gorm.io/gorm"
)

// SQLiteUserStore implements store.UserStore with gorm.
type SQLiteUserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteUserStore creates a user store on db.
func NewSQLiteUserStore(db *gorm.DB, logger *slog.Logger) *SQLiteUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*SQLiteUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *SQLiteUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rec := userRecord{
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
		DateJoined:     user.DateJoined,
	}
	if err := mapError(s.db.WithContext(ctx).Create(&rec).Error); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("username already exists", slog.String("username", user.Username))
			return store.ErrUsernameExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "insert failed", err)
	}

	user.ID = rec.ID
	log.Info("user created successfully", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *SQLiteUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *SQLiteUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "username = ?", username)
}

func (s *SQLiteUserStore) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(where, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", mapError(err))
	}

	return &domain.User{
		ID:             rec.ID,
		Username:       rec.Username,
		HashedPassword: rec.HashedPassword,
		DateJoined:     domain.Timestamp(rec.DateJoined),
	}, nil
}
