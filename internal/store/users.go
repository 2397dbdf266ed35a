package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// CreateUserInput holds the fields for a new user account.
type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Organization string
}

// CreateUser creates a new user.
func CreateUser(ctx context.Context, db *sql.DB, in CreateUserInput) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, name, organization)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Username, in.Email, in.PasswordHash, in.Role, in.Name, in.Organization,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

const userColumns = `id, username, email, password_hash, role, name, organization,
	created_at, last_login, deleted_at`

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including soft-deleted, so
// login can distinguish a disabled account from an unknown one).
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users, optionally filtered by role.
func ListUsers(ctx context.Context, db *sql.DB, role string) ([]model.User, error) {
	var rows *sql.Rows
	var err error

	if role != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL AND role = ? ORDER BY id`, role,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser updates a user's role, name, and organization.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, role, name, organization string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET role = ?, name = ?, organization = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		role, name, organization, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful login.
func TouchLastLogin(ctx context.Context, db *sql.DB, id int64, at time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at, id,
	)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var email, name, organization sql.NullString
	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role,
		&name, &organization, &u.CreatedAt, &u.LastLogin, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	u.Name = name.String
	u.Organization = organization.String
	return u, nil
}
