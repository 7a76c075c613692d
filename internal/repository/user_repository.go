package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Database, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// username is nullable so its unique index ignores accounts without one.
const userColumns = `id, name, COALESCE(username, '') AS username, phone, address, email, password, role, active, created_at, updated_at`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, username, phone, address, email, password, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		sql.NullString{String: user.Username, Valid: user.Username != ""},
		user.Phone,
		user.Address,
		user.Email,
		user.Password,
		user.Role,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.Error("Failed to create user", "error", err, "userID", user.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.DB.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by ID", "error", err, "userID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// GetByIdentifier retrieves a user by email or username; logins accept either.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.DB.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR username = $1`, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by identifier", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// GetByNameAndRole retrieves a user by display name and role, the natural
// key used to locate the synthetic import agent.
func (r *UserRepository) GetByNameAndRole(ctx context.Context, name string, role models.Role) (*models.User, error) {
	var user models.User
	err := r.db.DB.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE name = $1 AND role = $2 LIMIT 1`, name, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by name and role", "error", err, "name", name, "role", role)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// ListByRoles retrieves users holding any of the given roles, newest first.
func (r *UserRepository) ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error) {
	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	var users []*models.User
	err := r.db.DB.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE role = ANY($1) ORDER BY created_at DESC`,
		pq.Array(roleStrings))
	if err != nil {
		r.logger.Error("Failed to list users by roles", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return users, nil
}

// NamesByID returns a lookup of user ID to display name for the given IDs.
func (r *UserRepository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows := []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}{}

	err := r.db.DB.SelectContext(ctx, &rows,
		`SELECT id, name FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to look up user names", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}

	return names, nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, username = $2, phone = $3, address = $4, email = $5,
			password = $6, role = $7, active = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		user.Name,
		sql.NullString{String: user.Username, Valid: user.Username != ""},
		user.Phone,
		user.Address,
		user.Email,
		user.Password,
		user.Role,
		user.Active,
		models.GetCurrentTime(),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.Error("Failed to update user", "error", err, "userID", user.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a user by its ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete user", "error", err, "userID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
