package repository

import (
	"context"

	"github.com/oksasatya/user-management-service/internal/domain/entity"
)

// UserRepository defines the persistence capabilities the user service relies on.
// Implementations return domain.ErrUserNotFound for missing rows and
// domain.ErrDuplicateEmail when a write collides with another user's email.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts u and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, u *entity.User) error
	// Update overwrites the stored row and refreshes UpdatedAt.
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
	// FindPage returns one page of matching users and the total match count,
	// both read from the same snapshot.
	FindPage(ctx context.Context, f UserFilter, p PageRequest) ([]entity.User, int64, error)
	// Search matches term as a case-insensitive substring of first name, last name or email.
	Search(ctx context.Context, term string, p PageRequest) ([]entity.User, int64, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	// FindAll returns every matching user ordered by ID.
	FindAll(ctx context.Context, f UserFilter) ([]entity.User, error)
}

// UserFilter is an exact-match predicate; nil fields are ignored.
type UserFilter struct {
	Role    *entity.UserRole
	Status  *entity.UserStatus
	City    *string
	Country *string
}

func (f UserFilter) Matches(u *entity.User) bool {
	if f.Role != nil && u.Role != *f.Role {
		return false
	}
	if f.Status != nil && u.Status != *f.Status {
		return false
	}
	if f.City != nil && u.City != *f.City {
		return false
	}
	if f.Country != nil && u.Country != *f.Country {
		return false
	}
	return true
}
