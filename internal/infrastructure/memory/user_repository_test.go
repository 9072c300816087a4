package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management-service/internal/domain"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
	"github.com/oksasatya/user-management-service/internal/domain/repository"
)

func seed(t *testing.T, r *UserRepository, users ...entity.User) []entity.User {
	t.Helper()
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		u := u
		require.NoError(t, r.Create(context.Background(), &u))
		out = append(out, u)
	}
	return out
}

func TestCreateAssignsIDsAndRejectsDuplicateEmail(t *testing.T) {
	r := NewUserRepository()
	users := seed(t, r,
		entity.User{FirstName: "Ann", Email: "ann@example.com", Role: entity.RoleUser},
		entity.User{FirstName: "Bob", Email: "bob@example.com", Role: entity.RoleUser},
	)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)
	assert.False(t, users[0].CreatedAt.IsZero())
	assert.Equal(t, users[0].CreatedAt, users[0].UpdatedAt)

	dup := entity.User{Email: "ANN@example.com", Role: entity.RoleUser}
	err := r.Create(context.Background(), &dup)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))

	n, err := r.Count(context.Background(), repository.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUpdateRejectsEmailOfAnotherUser(t *testing.T) {
	r := NewUserRepository()
	users := seed(t, r,
		entity.User{Email: "ann@example.com", Role: entity.RoleUser},
		entity.User{Email: "bob@example.com", Role: entity.RoleUser},
	)

	bob := users[1]
	bob.Email = "Ann@Example.com"
	err := r.Update(context.Background(), &bob)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))

	ann := users[0]
	ann.Email = "ANN@example.com"
	require.NoError(t, r.Update(context.Background(), &ann))

	missing := entity.User{ID: 99}
	assert.True(t, errors.Is(r.Update(context.Background(), &missing), domain.ErrUserNotFound))
}

func TestFindPageSortsAndSlices(t *testing.T) {
	r := NewUserRepository()
	seed(t, r,
		entity.User{FirstName: "Carl", Email: "c@example.com", Role: entity.RoleUser},
		entity.User{FirstName: "Abe", Email: "a@example.com", Role: entity.RoleAdmin},
		entity.User{FirstName: "Bea", Email: "b@example.com", Role: entity.RoleUser},
	)

	page, total, err := r.FindPage(context.Background(), repository.UserFilter{},
		repository.PageRequest{Page: 0, Size: 2, SortBy: "firstName", SortDir: repository.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "Abe", page[0].FirstName)
	assert.Equal(t, "Bea", page[1].FirstName)

	page, _, err = r.FindPage(context.Background(), repository.UserFilter{},
		repository.PageRequest{Page: 0, Size: 10, SortBy: "id", SortDir: repository.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page[0].ID)

	page, total, err = r.FindPage(context.Background(), repository.UserFilter{},
		repository.PageRequest{Page: 5, Size: 10, SortBy: "id"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, page)

	page, _, err = r.FindPage(context.Background(), repository.UserFilter{},
		repository.PageRequest{Page: math.MaxInt / 5, Size: 10, SortBy: "id"})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSortByNameIgnoresCase(t *testing.T) {
	r := NewUserRepository()
	seed(t, r,
		entity.User{FirstName: "bea", Email: "b@example.com", Role: entity.RoleUser},
		entity.User{FirstName: "Carl", Email: "c@example.com", Role: entity.RoleUser},
		entity.User{FirstName: "Abe", Email: "a@example.com", Role: entity.RoleUser},
	)

	page, _, err := r.FindPage(context.Background(), repository.UserFilter{},
		repository.PageRequest{Page: 0, Size: 10, SortBy: "firstName", SortDir: repository.SortAsc})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []string{"Abe", "bea", "Carl"},
		[]string{page[0].FirstName, page[1].FirstName, page[2].FirstName})
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	r := NewUserRepository()
	seed(t, r,
		entity.User{FirstName: "John", LastName: "Doe", Email: "jd@x.com", Role: entity.RoleUser},
		entity.User{FirstName: "Jane", LastName: "Roe", Email: "jane@x.com", Role: entity.RoleUser},
		entity.User{FirstName: "Max", LastName: "Power", Email: "johnny@x.com", Role: entity.RoleUser},
	)

	got, total, err := r.Search(context.Background(), "JOHN", repository.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "John", got[0].FirstName)
	assert.Equal(t, "Max", got[1].FirstName)
}

func TestDelete(t *testing.T) {
	r := NewUserRepository()
	users := seed(t, r, entity.User{Email: "ann@example.com", Role: entity.RoleUser})

	require.NoError(t, r.Delete(context.Background(), users[0].ID))
	_, err := r.FindByID(context.Background(), users[0].ID)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.True(t, errors.Is(r.Delete(context.Background(), users[0].ID), domain.ErrUserNotFound))
}
