package local

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"gorm.io/gorm"
)

// UserRecord is an auth account. Profiles live in their own table and are
// reached through the generic table API like any other row.
type UserRecord struct {
	ID               string     `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"uniqueIndex;not null"`
	PasswordHash     string     `gorm:"not null"`
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
}

func (UserRecord) TableName() string {
	return "auth_users"
}

func (u *UserRecord) toUser() *backend.User {
	return &backend.User{
		ID:               u.ID,
		Email:            u.Email,
		CreatedAt:        u.CreatedAt,
		EmailConfirmedAt: u.EmailConfirmedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns nil, nil when no account matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *UserRecord) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&UserRecord{})
}
