package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/webgames/accounts-go/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

const userColumns = `id, first_name, last_name, username, email, password_hash, role, created_at, updated_at`

const (
	insertUserQuery       = `INSERT INTO users (first_name, last_name, username, email, password_hash, role) VALUES (?, ?, ?, ?, ?, ?)`
	emailExistsQuery      = `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`
	usernameExistsQuery   = `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER(?))`
	updatePasswordQuery   = `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	deleteUserQuery       = `DELETE FROM users WHERE id = ?`
	selectByEmailQuery    = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	selectByUsernameQuery = `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?)`
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	args := []any{user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash, string(user.Role)}

	if r.dialect == Postgres {
		err := r.db.QueryRowContext(ctx, r.dialect.rebind(insertUserQuery)+` RETURNING id`, args...).Scan(&user.ID)
		if err != nil {
			if isDuplicateEntryError(err) {
				return ErrDuplicateUser
			}
			return err
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, insertUserQuery, args...)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUser
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// ExistsByEmail reports whether a user with exactly this email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, emailExistsQuery, email)
}

// ExistsByUsername reports whether a user with this username exists,
// ignoring case.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, usernameExistsQuery, username)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, selectByEmailQuery, email)
}

// GetByUsername retrieves a user by username, ignoring case.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, selectByUsernameQuery, username)
}

// UpdatePassword replaces the stored password hash of user id.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execOne(ctx, updatePasswordQuery, passwordHash, id)
}

// DeleteByID removes user id.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.execOne(ctx, deleteUserQuery, id)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), arg).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	var role string
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), arg).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
		&user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = model.Role(role)
	return user, nil
}

// execOne runs a statement that must affect exactly one user row.
func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isDuplicateEntryError reports unique-constraint violations from either driver.
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
