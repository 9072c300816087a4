package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-management-service/internal/domain"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
	"github.com/oksasatya/user-management-service/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, first_name, last_name, email, phone, address, city, country, postal_code,
	role, status, bio, avatar_url, created_at, updated_at, last_login_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.UserNotFound(id)
	}
	return u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, address, city, country, postal_code,
			role, status, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.Phone, u.Address, u.City, u.Country, u.PostalCode,
		string(u.Role), string(u.Status), u.Bio, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapWriteError(err, u.Email)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4, address = $5, city = $6,
			country = $7, postal_code = $8, role = $9, status = $10, bio = $11, avatar_url = $12,
			updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`, u.FirstName, u.LastName, u.Email, u.Phone, u.Address, u.City, u.Country, u.PostalCode,
		string(u.Role), string(u.Status), u.Bio, u.AvatarURL, u.ID)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserNotFound(u.ID)
		}
		return mapWriteError(err, u.Email)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.UserNotFound(id)
	}
	return nil
}

func (r *UserRepository) FindPage(ctx context.Context, f repository.UserFilter, p repository.PageRequest) ([]entity.User, int64, error) {
	where, args := filterClause(f)
	return r.page(ctx, where, args, p)
}

func (r *UserRepository) Search(ctx context.Context, term string, p repository.PageRequest) ([]entity.User, int64, error) {
	where := ` WHERE (LOWER(first_name) LIKE $1 ESCAPE '\' OR LOWER(last_name) LIKE $1 ESCAPE '\' OR LOWER(email) LIKE $1 ESCAPE '\')`
	return r.page(ctx, where, []any{containsPattern(term)}, p)
}

func (r *UserRepository) Count(ctx context.Context, f repository.UserFilter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n)
	return n, err
}

func (r *UserRepository) FindAll(ctx context.Context, f repository.UserFilter) ([]entity.User, error) {
	where, args := filterClause(f)
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// page reads the total and the requested slice inside one snapshot.
func (r *UserRepository) page(ctx context.Context, where string, args []any, p repository.PageRequest) ([]entity.User, int64, error) {
	var (
		users []entity.User
		total int64
	)
	err := withReadTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
			return err
		}
		if total == 0 {
			users = []entity.User{}
			return nil
		}
		n := len(args)
		q := `SELECT ` + userColumns + ` FROM users` + where + orderClause(p) +
			` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
		rows, err := tx.Query(ctx, q, append(args, p.Size, p.Offset())...)
		if err != nil {
			return err
		}
		users, err = collectUsers(rows)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func filterClause(f repository.UserFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+" = $"+strconv.Itoa(len(args)))
	}
	if f.Role != nil {
		add("role", string(*f.Role))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.City != nil {
		add("city", *f.City)
	}
	if f.Country != nil {
		add("country", *f.Country)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(p repository.PageRequest) string {
	dir := " ASC"
	if p.Descending() {
		dir = " DESC"
	}
	col := p.SortColumn()
	if col == "id" {
		return " ORDER BY id" + dir
	}
	return " ORDER BY " + col + dir + ", id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func mapWriteError(err error, email string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.DuplicateEmail(email)
	}
	return err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role, status string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address, &u.City,
		&u.Country, &u.PostalCode, &role, &status, &u.Bio, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	u.Role = entity.UserRole(role)
	u.Status = entity.UserStatus(status)
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	defer rows.Close()
	users := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
