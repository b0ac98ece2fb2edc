// File: internal/data/users.go
package data

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactsapi/internal/validator"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ----------------------------------------------------------------------
//
//	Definitions
//
// ----------------------------------------------------------------------

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Password represents a hashed password.
type Password struct {
	hash      []byte
	plaintext *string
}

// User represents a user in the system.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"-"`
}

// UserModel wraps a sql.DB connection pool.
type UserModel struct {
	DB *sql.DB
}

// AnonymousUser represents an unauthenticated request.
var AnonymousUser = &User{}

// ----------------------------------------------------------------------
//
//	Methods
//
// ----------------------------------------------------------------------

// Set hashes a plaintext password and stores it in the Password struct.
func (p *Password) Set(plaintextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.plaintext = &plaintextPassword
	p.hash = hashedPassword
	return nil
}

// Matches checks if the provided plaintext password matches the stored hashed password.
func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// GravatarURL returns the Gravatar image URL for an email address.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", md5.Sum([]byte(normalized)))
}

// ValidatePasswordPlaintext checks the strength of a plaintext password.
func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 characters long")
	v.Check(v.Matches(password, validator.PasswordNumberRX), "password", "must contain at least one number")
	v.Check(v.Matches(password, validator.PasswordUpperRX), "password", "must contain at least one uppercase letter")
	v.Check(v.Matches(password, validator.PasswordLowerRX), "password", "must contain at least one lowercase letter")
}

// ValidateEmail checks if the email is in a valid format.
func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(len(email) <= 254, "email", "must not be more than 254 characters long")
	v.Check(v.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

// ValidateUser checks the fields of a User struct to ensure they meet the required criteria.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Username != "", "username", "must be provided")
	v.Check(len(user.Username) >= 3, "username", "must be at least 3 characters long")
	v.Check(len(user.Username) <= 50, "username", "must not be more than 50 characters long")
	v.Check(v.Matches(user.Username, validator.UsernameRX), "username", "must contain only letters, numbers, dots, dashes and underscores")

	ValidateEmail(v, user.Email)

	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}

	v.Check(v.Permitted(user.Role, RoleUser, RoleAdmin), "role", "must be one of the permitted values")
}

// ----------------------------------------------------------------------
//
//	Database interaction methods
//
// ----------------------------------------------------------------------

// Insert adds a new user to the database.
func (m *UserModel) Insert(user *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, avatar, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.Password.hash,
		user.Role,
		user.Avatar,
		user.Confirmed,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Version)
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

// Update modifies an existing user in the database guarded by its version.
func (m *UserModel) Update(user *User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, role = $4, avatar = $5, confirmed = $6, updated_at = NOW(), version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.Password.hash,
		user.Role,
		user.Avatar,
		user.Confirmed,
		user.ID,
		user.Version,
	).Scan(&user.UpdatedAt, &user.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEditConflict
		}
		return translateUniqueViolation(err)
	}
	return nil
}

// GetByID retrieves a user by its ID.
func (m *UserModel) GetByID(id int64) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, avatar, confirmed, created_at, updated_at, version
		FROM users
		WHERE id = $1
	`

	return m.getOne(query, id)
}

// GetByEmail retrieves a user by its email address.
func (m *UserModel) GetByEmail(email string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, avatar, confirmed, created_at, updated_at, version
		FROM users
		WHERE email = $1
	`

	return m.getOne(query, email)
}

// GetByUsername retrieves a user by its username.
func (m *UserModel) GetByUsername(username string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, avatar, confirmed, created_at, updated_at, version
		FROM users
		WHERE username = $1
	`

	return m.getOne(query, username)
}

// GetForToken retrieves the user owning an unexpired token with the given scope.
func (m *UserModel) GetForToken(tokenScope, tokenPlaintext string) (*User, error) {
	query := `
		SELECT users.id, users.username, users.email, users.password_hash, users.role, users.avatar, users.confirmed, users.created_at, users.updated_at, users.version
		FROM users
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.scope = $1
		AND tokens.hash = $2
		AND tokens.expires_at > $3
	`

	tokenHash := sha256.Sum256([]byte(tokenPlaintext))

	return m.getOne(query, tokenScope, tokenHash[:], time.Now())
}

// ConfirmEmail marks the user with the given email address as confirmed.
func (m *UserModel) ConfirmEmail(email string) error {
	query := `
		UPDATE users
		SET confirmed = TRUE, updated_at = NOW(), version = version + 1
		WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateAvatar sets a new avatar URL for the user with the given email address.
func (m *UserModel) UpdateAvatar(email, url string) (*User, error) {
	query := `
		UPDATE users
		SET avatar = $1, updated_at = NOW(), version = version + 1
		WHERE email = $2
		RETURNING id, username, email, password_hash, role, avatar, confirmed, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	user := &User{}

	err := m.DB.QueryRowContext(ctx, query, url, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password.hash,
		&user.Role,
		&user.Avatar,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return user, nil
}

func (m *UserModel) getOne(query string, args ...any) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	user := &User{}

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password.hash,
		&user.Role,
		&user.Avatar,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return user, nil
}

// translateUniqueViolation maps Postgres unique constraint errors onto sentinel errors.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return ErrDuplicateEmail
		case strings.Contains(pqErr.Constraint, "username"):
			return ErrDuplicateUsername
		}
	}
	return err
}
