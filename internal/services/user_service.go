package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/models"
)

// UserServiceProvider defines the interface for account services.
type UserServiceProvider interface {
	Register(firstName, lastName, username, email, password string) (models.User, error)
	Authenticate(identifier, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
	ListUsers() ([]models.User, error)
	UpdateProfile(id int64, firstName, lastName, username, email, password string) (models.User, error)
	DeleteAccount(id int64) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
}

// UserService provides business logic for the account lifecycle.
type UserService struct {
	db          *sql.DB
	postService PostServiceProvider
	mailer      Mailer
	resetCodec  *auth.ResetTokenCodec
	appBaseURL  string
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, postService PostServiceProvider, mailer Mailer, resetCodec *auth.ResetTokenCodec, appBaseURL string) *UserService {
	return &UserService{
		db:          db,
		postService: postService,
		mailer:      mailer,
		resetCodec:  resetCodec,
		appBaseURL:  appBaseURL,
	}
}

// Register creates a new account, hashing the password. The welcome mail is
// best-effort: a delivery failure is logged and never rolls back the
// registration.
func (s *UserService) Register(firstName, lastName, username, email, password string) (models.User, error) {
	if err := s.checkAvailability(username, email); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO users(first_name, last_name, username, email, password_hash) VALUES(?, ?, ?, ?, ?)",
		firstName, lastName, username, email, string(hashedPassword),
	)
	if err != nil {
		return models.User{}, mapUserConflict(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	if err := s.mailer.Send([]string{email}, "Welcome to Z", "This is social media project"); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Failed to send welcome mail")
	}

	return s.GetUserByID(id)
}

// Authenticate verifies a user's credentials. The identifier matches either
// the username or the email.
func (s *UserService) Authenticate(identifier, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, first_name, last_name, username, email, password_hash, created_at FROM users WHERE username = ? OR email = ?",
		identifier, identifier,
	)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: no account for %q", ErrUserNotFound, identifier)
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, first_name, last_name, username, email, created_at FROM users WHERE id = ?", id,
	)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return models.User{}, err
	}
	return user, nil
}

// ListUsers retrieves every registered user, for the feed's author list.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, first_name, last_name, username, email, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile overwrites the profile fields. An empty password keeps the
// current one. Uniqueness is not re-checked up front; a constraint violation
// from the store surfaces as the matching conflict error.
func (s *UserService) UpdateProfile(id int64, firstName, lastName, username, email, password string) (models.User, error) {
	if _, err := s.GetUserByID(id); err != nil {
		return models.User{}, err
	}

	if password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		_, err = s.db.Exec(
			"UPDATE users SET first_name = ?, last_name = ?, username = ?, email = ?, password_hash = ? WHERE id = ?",
			firstName, lastName, username, email, string(hashedPassword), id,
		)
		if err != nil {
			return models.User{}, mapUserConflict(err)
		}
	} else {
		_, err := s.db.Exec(
			"UPDATE users SET first_name = ?, last_name = ?, username = ?, email = ? WHERE id = ?",
			firstName, lastName, username, email, id,
		)
		if err != nil {
			return models.User{}, mapUserConflict(err)
		}
	}

	return s.GetUserByID(id)
}

// DeleteAccount removes a user and everything they own: every follow edge
// touching the user in either direction, every post they authored (through
// the post delete path so attachments are reclaimed), and finally the user
// row. Authorization (actor == id) is the caller's responsibility.
func (s *UserService) DeleteAccount(id int64) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM follows WHERE follower_id = ? OR followed_id = ?", id, id); err != nil {
		return err
	}

	posts, err := s.postService.ListPostsByAuthor(id)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if err := s.postService.DeletePost(post.ID, id); err != nil {
			return err
		}
	}

	_, err = s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// RequestPasswordReset issues a reset token for the account behind the given
// email and mails the reset link. The mail itself is best-effort.
func (s *UserService) RequestPasswordReset(email string) error {
	var id int64
	row := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: no account for email %q", ErrUserNotFound, email)
		}
		return err
	}

	token, err := s.resetCodec.Encode(email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.appBaseURL, "/"), token)
	body := "Click the link to reset your password: " + resetURL
	if err := s.mailer.Send([]string{email}, "Password Reset Request", body); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Failed to send password reset mail")
	}
	return nil
}

// ResetPassword verifies a reset token and sets the new password for the
// account it was issued for.
func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.resetCodec.Decode(token)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE email = ?", string(hashedPassword), email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: no account for email %q", ErrUserNotFound, email)
	}
	return nil
}

// checkAvailability reports the conflict error for an already-taken username
// or email.
func (s *UserService) checkAvailability(username, email string) error {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %q", ErrUsernameTaken, username)
	}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %q", ErrEmailTaken, email)
	}
	return nil
}

// mapUserConflict converts storage UNIQUE violations on the users table into
// the matching conflict error.
func mapUserConflict(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	case strings.Contains(msg, "users.email"):
		return fmt.Errorf("%w: %v", ErrEmailTaken, err)
	}
	return err
}
