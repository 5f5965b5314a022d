package domain

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 5

// AuthService handles account creation and login. Passwords are stored as
// bcrypt hashes; successful logins are answered with a signed token.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthService wires the auth service with its collaborators.
func NewAuthService(users UserRepository, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup creates a new user and returns its ID.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	var fields []FieldError
	if !strings.Contains(email, "@") {
		fields = append(fields, FieldError{Field: "email", Message: "a valid email address is required"})
	}
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name must not be empty"})
	}
	if len(password) < minPasswordLen {
		fields = append(fields, FieldError{Field: "password", Message: "password is too short"})
	}
	if len(fields) > 0 {
		return "", Invalid("Validation failed, entered data is incorrect.", fields...)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", Invalid("Validation failed, entered data is incorrect.",
			FieldError{Field: "email", Message: "email address already exists"})
	} else if KindOf(err) != KindNotFound {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", Fault("failed to hash password", err)
	}

	user := &User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user created", "user", user.ID)
	return user.ID, nil
}

// Login checks the credentials and returns a signed token and the user's ID.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (token, userID string, err error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return "", "", Unauthenticated("Invalid email or password")
		}
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", Unauthenticated("Invalid email or password")
	}

	token, err = s.tokens.Issue(user.ID)
	if err != nil {
		return "", "", Fault("failed to issue token", err)
	}
	return token, user.ID, nil
}
