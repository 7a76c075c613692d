package service

import (
	"context"
	"errors"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// AuthService handles login and operator account management.
type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	logger logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens *auth.TokenManager, logger logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// LoginResult is the successful outcome of a credential check.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks the password for an email or username and issues a token.
// Unknown identifier and wrong password are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, apperrors.NewInvalidInputError("identifier and password are required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAuthFailedError("invalid credentials")
		}
		s.logger.Error("Failed to look up user", "error", err)
		return nil, apperrors.NewInternalError("failed to log in")
	}

	if !user.Active {
		return nil, apperrors.NewAuthFailedError("invalid credentials")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.NewAuthFailedError("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to issue token", "error", err, "userID", user.ID)
		return nil, apperrors.NewInternalError("failed to log in")
	}

	s.logger.Info("User logged in", "userID", user.ID, "role", user.Role)
	return &LoginResult{Token: token, User: user}, nil
}

// RegisterRequest carries the fields for a new operator account.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Register creates an operator account. Super admin only.
func (s *AuthService) Register(ctx context.Context, actor *models.User, req RegisterRequest) (*models.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("not authorized to create users")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.NewInvalidInputError("name, email and password are required")
	}
	switch req.Role {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleAgent:
	default:
		return nil, apperrors.NewInvalidInputError("unknown role")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, apperrors.NewInternalError("failed to create user")
	}

	user := models.NewUser(req.Name, req.Email, hashed, req.Role)
	user.Username = req.Username
	user.Phone = req.Phone
	user.Address = req.Address

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("email or username already in use")
		}
		s.logger.Error("Failed to create user", "error", err)
		return nil, apperrors.NewInternalError("failed to create user")
	}

	s.logger.Info("User created", "userID", user.ID, "role", user.Role, "createdBy", actor.ID)
	return user, nil
}

// GetUser fetches one operator account by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		s.logger.Error("Failed to get user", "error", err, "userID", id)
		return nil, apperrors.NewInternalError("failed to load user")
	}
	return user, nil
}

// ListAgents returns the agent accounts, used for report filters and
// order reassignment. Super admins also see admin accounts.
func (s *AuthService) ListAgents(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !actor.IsElevated() {
		return nil, apperrors.NewForbiddenError("not authorized to list agents")
	}

	roles := []models.Role{models.RoleAgent}
	if actor.IsSuperAdmin() {
		roles = append(roles, models.RoleAdmin)
	}

	agents, err := s.users.ListByRoles(ctx, roles)
	if err != nil {
		s.logger.Error("Failed to list agents", "error", err)
		return nil, apperrors.NewInternalError("failed to list agents")
	}
	return agents, nil
}

// UpdateUserRequest patches an account; nil fields are untouched.
type UpdateUserRequest struct {
	Name     *string      `json:"name"`
	Username *string      `json:"username"`
	Email    *string      `json:"email"`
	Phone    *string      `json:"phone"`
	Address  *string      `json:"address"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
	Active   *bool        `json:"active"`
}

// UpdateUser applies a partial update. Users may edit their own profile;
// role and active changes require super admin.
func (s *AuthService) UpdateUser(ctx context.Context, actor *models.User, id string, req UpdateUserRequest) (*models.User, error) {
	if actor.ID != id && !actor.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("not authorized to edit this user")
	}
	if (req.Role != nil || req.Active != nil) && !actor.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("not authorized to change role or status")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, apperrors.NewInvalidInputError("password cannot be empty")
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error("Failed to hash password", "error", err)
			return nil, apperrors.NewInternalError("failed to update user")
		}
		user.Password = hashed
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = models.GetCurrentTime()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("email or username already in use")
		}
		s.logger.Error("Failed to update user", "error", err, "userID", id)
		return nil, apperrors.NewInternalError("failed to update user")
	}

	return user, nil
}

// DeleteUser removes an operator account. Super admin only, and never
// the actor's own account.
func (s *AuthService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsSuperAdmin() {
		return apperrors.NewForbiddenError("not authorized to delete users")
	}
	if actor.ID == id {
		return apperrors.NewInvalidInputError("cannot delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("user not found")
		}
		s.logger.Error("Failed to delete user", "error", err, "userID", id)
		return apperrors.NewInternalError("failed to delete user")
	}

	s.logger.Warn("User deleted", "userID", id, "deletedBy", actor.ID)
	return nil
}
