package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/auth"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
)

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

type CreateUserInput struct {
	RegisterInput
	Role      string `json:"role"`
	CanteenID *uint  `json:"canteen_id"`
}

// UpdateUserInput changes only the fields that are set.
type UpdateUserInput struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
	CanteenID   *uint   `json:"canteen_id"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// Authenticate resolves a bearer token to its user and session id.
	Authenticate(ctx context.Context, token string) (*models.User, string, error)
	Me(ctx context.Context, actor *access.Actor) (*models.User, error)

	ListUsers(ctx context.Context, actor *access.Actor, filter repository.UserFilter) ([]models.User, error)
	GetUser(ctx context.Context, actor *access.Actor, id uint) (*models.User, error)
	CreateUser(ctx context.Context, actor *access.Actor, in CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor *access.Actor, id uint, in UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor *access.Actor, id uint) error

	// EnsureAdmin creates the bootstrap admin account when no user has that email.
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, bool, error)
}

type userService struct {
	store    repository.Store
	sessions auth.SessionStore
	jwt      *auth.JWTManager
	logger   *slog.Logger
}

func NewUserService(store repository.Store, sessions auth.SessionStore, jwt *auth.JWTManager, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{store: store, sessions: sessions, jwt: jwt, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) newUser(in RegisterInput, role models.Role) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email address")
	}
	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return nil, apperr.Validation("%v", err)
	}
	if err != nil {
		return nil, err
	}
	return &models.User{
		Name:         name,
		Email:        email,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		PasswordHash: hash,
		Role:         role,
	}, nil
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.newUser(in, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("email %s is already registered", user.Email)
		}
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, auth.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}

	sessionID := auth.NewSessionID()
	ttl := s.jwt.TokenDuration()
	if err := s.sessions.SetSession(ctx, sessionID, &auth.SessionData{UserID: user.ID, CreatedAt: time.Now()}, ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	token, err := s.jwt.Generate(user, sessionID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: time.Now().Add(ttl), User: user}, nil
}

func (s *userService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.ErrUnauthenticated
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, string, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	session, err := s.sessions.GetSession(ctx, claims.ID)
	if errors.Is(err, auth.ErrSessionNotFound) {
		return nil, "", fmt.Errorf("%w: session expired or revoked", apperr.ErrUnauthenticated)
	}
	if err != nil {
		return nil, "", err
	}
	if session.UserID != claims.UserID {
		return nil, "", fmt.Errorf("%w: session does not match token", apperr.ErrUnauthenticated)
	}
	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, "", fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthenticated)
	}
	if err != nil {
		return nil, "", err
	}
	return user, claims.ID, nil
}

func (s *userService) Me(ctx context.Context, actor *access.Actor) (*models.User, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.store.Users().GetByID(ctx, actor.UserID)
}

func (s *userService) ListUsers(ctx context.Context, actor *access.Actor, filter repository.UserFilter) ([]models.User, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Users().List(ctx, filter)
}

func (s *userService) GetUser(ctx context.Context, actor *access.Actor, id uint) (*models.User, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Users().GetByID(ctx, id)
}

// bindCanteen applies the staff binding rule: staff need an existing canteen,
// everyone else has the binding cleared.
func bindCanteen(ctx context.Context, store repository.Store, user *models.User, canteenID *uint) error {
	if user.Role != models.RoleStaff {
		user.CanteenID = nil
		return nil
	}
	if canteenID == nil {
		canteenID = user.CanteenID
	}
	if canteenID == nil || *canteenID == 0 {
		return apperr.Validation("staff must be assigned to a canteen")
	}
	if _, err := store.Canteens().GetByID(ctx, *canteenID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("canteen %d does not exist", *canteenID)
		}
		return err
	}
	id := *canteenID
	user.CanteenID = &id
	return nil
}

func (s *userService) CreateUser(ctx context.Context, actor *access.Actor, in CreateUserInput) (*models.User, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, apperr.Validation("unknown role %q", in.Role)
	}
	user, err := s.newUser(in.RegisterInput, role)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := bindCanteen(ctx, tx, user, in.CanteenID); err != nil {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if errors.Is(err, apperr.ErrConflict) {
		return nil, apperr.Conflict("email %s is already registered", user.Email)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "by", actor.UserID)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *access.Actor, id uint, in UpdateUserInput) (*models.User, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Validation("name is required")
			}
			u.Name = name
		}
		if in.PhoneNumber != nil {
			u.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
		}
		if in.Role != nil {
			role, ok := models.ParseRole(*in.Role)
			if !ok {
				return apperr.Validation("unknown role %q", *in.Role)
			}
			if u.ID == actor.UserID && role != u.Role {
				return apperr.Validation("admins cannot change their own role")
			}
			u.Role = role
		}
		if in.Role != nil || in.CanteenID != nil {
			if err := bindCanteen(ctx, tx, u, in.CanteenID); err != nil {
				return err
			}
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", user.ID, "role", user.Role, "by", actor.UserID)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *access.Actor, id uint) error {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperr.Validation("admins cannot delete their own account")
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id, "by", actor.UserID)
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, bool, error) {
	existing, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}
	admin, err := s.newUser(RegisterInput{Name: "Administrator", Email: email, Password: password}, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	if err := s.store.Users().Create(ctx, admin); err != nil {
		return nil, false, err
	}
	s.logger.Info("admin account created", "user_id", admin.ID, "email", admin.Email)
	return admin, true, nil
}
