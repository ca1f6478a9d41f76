package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/RushabhMehta2005/recipe-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserFields are the optional attributes of a new user.
type UserFields struct {
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// UserUpdate carries a partial profile update; nil fields are left alone.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService owns user creation and credential checks.
type UserService struct {
	db     *gorm.DB
	hasher *Hasher
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, hasher *Hasher, logger *zap.Logger) *UserService {
	return &UserService{db: db, hasher: hasher, logger: logger}
}

// CreateUser normalizes the email, hashes the password and saves a new user.
func (s *UserService) CreateUser(ctx context.Context, email, password string, fields UserFields) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, models.ErrEmailRequired
	}

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.GenerateHash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:       email,
		Password:    hash,
		Name:        fields.Name,
		IsActive:    true,
		IsStaff:     fields.IsStaff,
		IsSuperuser: fields.IsSuperuser,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.Bool("is_staff", user.IsStaff),
		zap.Bool("is_superuser", user.IsSuperuser))
	return user, nil
}

// CreateSuperuser creates a user with staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, UserFields{IsStaff: true, IsSuperuser: true})
}

// Authenticate returns the active user matching email and password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.CheckPassword(user, password) {
		return nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, models.ErrInactiveUser
	}
	return &user, nil
}

// CheckPassword reports whether raw matches the user's stored hash.
func (s *UserService) CheckPassword(user models.User, raw string) bool {
	return s.hasher.Compare(user.Password, raw)
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to user and persists it.
func (s *UserService) Update(ctx context.Context, user *models.User, upd UserUpdate) error {
	updates := make(map[string]interface{})

	if upd.Email != nil {
		email := models.NormalizeEmail(*upd.Email)
		if email == "" {
			return models.ErrEmailRequired
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return err
			}
			updates["email"] = email
		}
	}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Password != nil {
		hash, err := s.hasher.GenerateHash(ctx, *upd.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := s.db.WithContext(ctx).First(user, user.ID).Error; err != nil {
		return fmt.Errorf("failed to reload user: %w", err)
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return models.ErrEmailTaken
	}
	return nil
}
