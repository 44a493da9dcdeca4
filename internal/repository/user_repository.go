package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/files-manager/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// UserRepo is the MySQL implementation of UserStore backed by the `users`
// table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The email is normalized before
// insert; the unique key on `email` enforces one account per address.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (string, error) {
	email = normalizeEmail(email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, passwordHash)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return "", ErrEmailExists
		}
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return formatID(uint64(id)), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		normalizeEmail(email))
}

// GetByID fetches a user by id.  Malformed ids are reported as not found:
// a user id only ever comes from the session cache.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE id=? LIMIT 1", uid)
}

// Count returns the number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var (
		id        uint64
		u         model.User
		createdAt time.Time
	)
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&id, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.ID = formatID(id)
	u.CreatedAt = createdAt
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
