// Package memory provides an in-process user store with the same semantics as
// the Postgres repository. It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/user-management-service/internal/domain"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
	"github.com/oksasatya/user-management-service/internal/domain/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]entity.User
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]entity.User), now: time.Now}
}

// WithClock replaces the timestamp source; used by tests.
func (r *UserRepository) WithClock(now func() time.Time) *UserRepository {
	r.now = now
	return r
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTakenLocked(email, 0), nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(u.Email, 0) {
		return domain.DuplicateEmail(u.Email)
	}
	r.nextID++
	now := r.now().UTC()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domain.UserNotFound(u.ID)
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return domain.DuplicateEmail(u.Email)
	}
	u.CreatedAt = stored.CreatedAt
	u.LastLoginAt = stored.LastLoginAt
	u.UpdatedAt = r.now().UTC()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.UserNotFound(id)
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) FindPage(_ context.Context, f repository.UserFilter, p repository.PageRequest) ([]entity.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.matchLocked(f.Matches)
	return slicePage(all, p), int64(len(all)), nil
}

func (r *UserRepository) Search(_ context.Context, term string, p repository.PageRequest) ([]entity.User, int64, error) {
	needle := strings.ToLower(term)
	match := func(u *entity.User) bool {
		return strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.matchLocked(match)
	return slicePage(all, p), int64(len(all)), nil
}

func (r *UserRepository) Count(_ context.Context, f repository.UserFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matchLocked(f.Matches))), nil
}

func (r *UserRepository) FindAll(_ context.Context, f repository.UserFilter) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.matchLocked(f.Matches)
	sortUsers(all, repository.DefaultPageRequest())
	return all, nil
}

func (r *UserRepository) emailTakenLocked(email string, exceptID int64) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) matchLocked(match func(*entity.User) bool) []entity.User {
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		if match(&u) {
			out = append(out, u)
		}
	}
	return out
}

func slicePage(all []entity.User, p repository.PageRequest) []entity.User {
	sortUsers(all, p)
	start := p.Offset()
	if start >= len(all) || p.Size <= 0 {
		return []entity.User{}
	}
	end := start + p.Size
	if end > len(all) || end < start {
		end = len(all)
	}
	return all[start:end]
}

func sortUsers(users []entity.User, p repository.PageRequest) {
	key := sortKey(p.SortColumn())
	desc := p.Descending()
	sort.SliceStable(users, func(i, j int) bool {
		a, b := &users[i], &users[j]
		if c := key(a, b); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})
}

func sortKey(column string) func(a, b *entity.User) int {
	str := func(get func(*entity.User) string) func(a, b *entity.User) int {
		// case-folded first, close to what a linguistic collation gives in postgres
		return func(a, b *entity.User) int {
			x, y := get(a), get(b)
			if c := strings.Compare(strings.ToLower(x), strings.ToLower(y)); c != 0 {
				return c
			}
			return strings.Compare(x, y)
		}
	}
	switch column {
	case "first_name":
		return str(func(u *entity.User) string { return u.FirstName })
	case "last_name":
		return str(func(u *entity.User) string { return u.LastName })
	case "email":
		return str(func(u *entity.User) string { return u.Email })
	case "city":
		return str(func(u *entity.User) string { return u.City })
	case "country":
		return str(func(u *entity.User) string { return u.Country })
	case "role":
		return str(func(u *entity.User) string { return string(u.Role) })
	case "status":
		return str(func(u *entity.User) string { return string(u.Status) })
	case "created_at":
		return func(a, b *entity.User) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case "updated_at":
		return func(a, b *entity.User) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b *entity.User) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		}
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
