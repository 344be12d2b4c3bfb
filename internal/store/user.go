package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"authdesk/internal/database"
	"authdesk/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, full_name, email, password_hash, role, is_active, created_at, updated_at`

// listColumns 不含 password_hash
const listColumns = `id, full_name, email, role, is_active, created_at, updated_at`

var _ model.UserStore = (*UserStore)(nil)

// UserStore 是以 PostgreSQL 實作的 Credential Store
type UserStore struct {
	db database.Querier
}

func NewUserStore(db database.Querier) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	if err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	if !u.Role.Valid() {
		return nil, fmt.Errorf("user %s: unknown role %q", u.ID, role)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("EmailExists: %w", err)
	}
	return exists, nil
}

func (s *UserStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		u.ID,
		u.FullName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.IsActive,
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrEmailTaken
		}
		return nil, fmt.Errorf("Create: %w", err)
	}
	return u, nil
}

// UpdateProfile 只更新 full_name 與 email
func (s *UserStore) UpdateProfile(ctx context.Context, u *model.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET full_name = $1, email = $2, updated_at = now()
		 WHERE id = $3`,
		u.FullName,
		u.Email,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("UpdateProfile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, updated_at = now()
		 WHERE id = $2`,
		passwordHash,
		id,
	)
	if err != nil {
		return fmt.Errorf("UpdatePassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ToggleActive 在單一語句內反轉 is_active，回傳新狀態
func (s *UserStore) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := s.db.QueryRow(ctx,
		`UPDATE users SET is_active = NOT is_active, updated_at = now()
		 WHERE id = $1
		 RETURNING is_active`,
		id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, model.ErrNotFound
		}
		return false, fmt.Errorf("ToggleActive: %w", err)
	}
	return active, nil
}

// List 依建立時間排序分頁列出使用者，不讀取 password_hash
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+listColumns+` FROM users
		 ORDER BY created_at, id
		 OFFSET $1 LIMIT $2`,
		offset,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var role string
		if err := rows.Scan(
			&u.ID,
			&u.FullName,
			&u.Email,
			&role,
			&u.IsActive,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		u.Role = model.Role(role)
		if !u.Role.Valid() {
			return nil, fmt.Errorf("List: user %s: unknown role %q", u.ID, role)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}
