package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
	"github.com/coursebank/backend/internal/secrets"
)

// BlacklistKey is the Redis key marking a logged-out token.
func BlacklistKey(token string) string {
	return "blacklist:" + token
}

type AuthService struct {
	store     repository.Store
	redis     *redis.Client
	hasher    *secrets.Hasher
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     models.Role
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

func NewAuthService(store repository.Store, redisClient *redis.Client, hasher *secrets.Hasher, jwtSecret string, expiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		redis:     redisClient,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
		now:       time.Now,
	}
}

// Register creates a student or instructor and signs them in. Admins are only
// created through EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if in.Role != models.RoleStudent && in.Role != models.RoleInstructor {
		return nil, fmt.Errorf("role %q cannot be self-assigned: %w", in.Role, models.ErrValidation)
	}

	user, err := s.createUser(ctx, in)
	if err != nil {
		log.Printf("[AUTH] Registration failed for %s: %v", in.Username, err)
		return nil, err
	}

	log.Printf("[AUTH] User created successfully - ID: %s, Username: %s", user.ID, user.Username)
	return s.issue(user)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	hashedPassword, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hashedPassword,
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login answers ErrUnauthorized for both unknown users and wrong passwords.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.store.UserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, models.ErrNotFound) {
		log.Printf("[AUTH] User not found: %s", username)
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		log.Printf("[AUTH] Invalid password for user: %s", user.Username)
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	log.Printf("[AUTH] Login successful for user %s", user.ID)
	return s.issue(user)
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.redis == nil {
		return nil
	}

	if err := s.redis.Set(ctx, BlacklistKey(token), "1", s.expiry).Err(); err != nil {
		log.Printf("[AUTH] Failed to blacklist token: %v", err)
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" {
		return nil
	}

	_, err := s.store.UserByUsername(ctx, strings.ToLower(username))
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	if email == "" {
		email = username + "@localhost"
	}
	user, err := s.createUser(ctx, RegisterInput{
		Username: username,
		Email:    email,
		FullName: "Administrator",
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, models.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("[AUTH] Bootstrap admin %s created", user.Username)
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	expiresAt := s.now().Add(s.expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AuthResponse{Token: signed, ExpiresAt: expiresAt.UTC(), User: user}, nil
}
