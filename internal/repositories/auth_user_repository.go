package repositories

import (
	"errors"
	"time"

	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"gorm.io/gorm"
)

// AuthUserRepository defines the interface for credential data operations
type AuthUserRepository interface {
	CreateAuthUser(user *models.AuthUser) error
	GetAuthUserByID(id string) (*models.AuthUser, error)
	GetAuthUserByEmail(email string) (*models.AuthUser, error)
}

// PostgresAuthUserRepository implements AuthUserRepository for PostgreSQL
type PostgresAuthUserRepository struct {
	db *gorm.DB
}

// NewPostgresAuthUserRepository creates a new PostgresAuthUserRepository
func NewPostgresAuthUserRepository(db *gorm.DB) *PostgresAuthUserRepository {
	return &PostgresAuthUserRepository{db: db}
}

// CreateAuthUser creates a new credential record
func (r *PostgresAuthUserRepository) CreateAuthUser(user *models.AuthUser) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(user).Error
}

// GetAuthUserByID retrieves a credential record by ID
func (r *PostgresAuthUserRepository) GetAuthUserByID(id string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetAuthUserByEmail retrieves a credential record by email
func (r *PostgresAuthUserRepository) GetAuthUserByEmail(email string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
