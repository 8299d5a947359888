package postgres

import (
	"context"

	"hbnb/internal/domain"
)

const userColumns = "id, first_name, last_name, email, is_admin, password_hash, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// AddUser inserts a user.
func (d *DB) AddUser(ctx context.Context, u *domain.User) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		u.ID, u.FirstName, u.LastName, u.Email, u.IsAdmin, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// GetUserByEmail retrieves a user by e-mail, case-insensitively.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email))
}

// ListUsers returns all users, oldest first.
func (d *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUser overwrites a user's mutable fields.
func (d *DB) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE users SET first_name = $2, last_name = $3, email = $4, is_admin = $5, password_hash = $6, updated_at = $7 WHERE id = $1",
		u.ID, u.FirstName, u.LastName, u.Email, u.IsAdmin, u.PasswordHash, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return expectOne(res, err)
}

// CountUsers returns the total number of users.
func (d *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
