package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/dberrors"
)

const userColumns = `id, email, password, first_name, last_name, role, is_active, last_login, created_at, updated_at`

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user account
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return user, nil
}

// List retrieves active users matching the filter with pagination
func (r *UserRepository) List(ctx context.Context, filter *dto.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	base := squirrel.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar)
	countBuilder := squirrel.Select("count(*)").
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Role != "" {
		base = base.Where(squirrel.Eq{"role": filter.Role})
		countBuilder = countBuilder.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		}
		base = base.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// AttachProfiles loads the student record and led brigades of each user in
// two batched queries. Used by the admin user list.
func (r *UserRepository) AttachProfiles(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[string]*models.User, len(users))
	ids := make([]string, 0, len(users))
	for _, user := range users {
		byID[user.ID] = user
		ids = append(ids, user.ID)
	}

	studentSQL, studentArgs, err := squirrel.Select(
		"s.user_id", "s.id", "s.temp_roll_number", "s.first_name", "s.last_name", "b.name",
	).
		From("students s").
		LeftJoin("brigades b ON b.id = s.brigade_id AND b.is_active = true").
		Where(squirrel.Eq{"s.user_id": ids, "s.is_active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	studentRows, err := r.db.Query(ctx, studentSQL, studentArgs...)
	if err != nil {
		return fmt.Errorf("error loading user students: %w", err)
	}
	defer studentRows.Close()
	for studentRows.Next() {
		var userID string
		var student models.Student
		var brigadeName *string
		if err := studentRows.Scan(&userID, &student.ID, &student.TempRollNumber,
			&student.FirstName, &student.LastName, &brigadeName); err != nil {
			return err
		}
		if brigadeName != nil {
			student.Brigade = &models.Brigade{Name: *brigadeName}
		}
		if user, ok := byID[userID]; ok {
			student.UserID = &user.ID
			user.Student = &student
		}
	}
	if err := studentRows.Err(); err != nil {
		return err
	}

	brigadeSQL, brigadeArgs, err := squirrel.Select("leader_id", "id", "name").
		From("brigades").
		Where(squirrel.Eq{"leader_id": ids, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	brigadeRows, err := r.db.Query(ctx, brigadeSQL, brigadeArgs...)
	if err != nil {
		return fmt.Errorf("error loading led brigades: %w", err)
	}
	defer brigadeRows.Close()
	for brigadeRows.Next() {
		var leaderID string
		var brigade models.Brigade
		if err := brigadeRows.Scan(&leaderID, &brigade.ID, &brigade.Name); err != nil {
			return err
		}
		if user, ok := byID[leaderID]; ok {
			user.Brigades = append(user.Brigades, &brigade)
		}
	}
	return brigadeRows.Err()
}

// UpdateLastLogin stamps the user's most recent successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// UpdatePassword replaces the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query := `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Deactivate soft deletes a user account
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CountByRole counts active users holding the given role
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	query := `SELECT count(*) FROM users WHERE role = $1 AND is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting users by role: %w", err)
	}
	return count, nil
}

// ListActiveIDs returns the IDs of every active user, optionally limited to a role.
// Used when fanning a notification out to its audience.
func (r *UserRepository) ListActiveIDs(ctx context.Context, role *models.Role) ([]string, error) {
	base := squirrel.Select("id").
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar)
	if role != nil {
		base = base.Where(squirrel.Eq{"role": *role})
	}

	sql, args, err := base.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// IsActiveLead reports whether the user exists, is active and holds the brigade lead role
func (r *UserRepository) IsActiveLead(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2 AND is_active = true)`

	var ok bool
	if err := r.db.QueryRow(ctx, query, id, models.RoleBrigadeLead).Scan(&ok); err != nil {
		return false, fmt.Errorf("error checking brigade lead: %w", err)
	}
	return ok, nil
}
