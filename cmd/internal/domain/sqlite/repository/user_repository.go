package repository

import (
	"context"
	"errors"

	"noteshare/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists int
	err := u.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := u.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error
	return total, err
}

// Create inserts a new user. A username already in use yields
// entity.ErrUsernameTaken, even when it was registered concurrently.
func (u *DefaultUserRepository) Create(ctx context.Context, user *entity.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.ErrUsernameTaken
	}
	return err
}

func (u *DefaultUserRepository) Save(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Save(user).Error
}

// FindToken returns the token currently valid for the user, if any.
func (u *DefaultUserRepository) FindToken(ctx context.Context, userID int64) (*entity.Token, error) {
	var token entity.Token
	err := u.db.WithContext(ctx).First(&token, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ReplaceToken stores token as the only valid token of its user.
func (u *DefaultUserRepository) ReplaceToken(ctx context.Context, token *entity.Token) error {
	return u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_id", "value", "created_at"}),
	}).Create(token).Error
}

func (u *DefaultUserRepository) DeleteToken(ctx context.Context, userID int64) error {
	return u.db.WithContext(ctx).Delete(&entity.Token{}, userID).Error
}
