package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/dberrors"
)

// BrigadeRepository handles database operations for brigades
type BrigadeRepository struct {
	db *pgxpool.Pool
}

// NewBrigadeRepository creates a new brigade repository
func NewBrigadeRepository(db *pgxpool.Pool) *BrigadeRepository {
	return &BrigadeRepository{
		db: db,
	}
}

func selectBrigadeQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"b.id", "b.name", "b.leader_id", "b.is_active", "b.created_at", "b.updated_at",
		"u.id", "u.first_name", "u.last_name", "u.email",
		"(SELECT count(*) FROM students s WHERE s.brigade_id = b.id AND s.is_active = true) AS student_count",
	).
		From("brigades b").
		LeftJoin("users u ON u.id = b.leader_id AND u.is_active = true").
		PlaceholderFormat(squirrel.Dollar)
}

func scanBrigade(row pgx.Row) (*models.Brigade, error) {
	var brigade models.Brigade
	var leaderID, leaderFirst, leaderLast, leaderEmail *string
	err := row.Scan(
		&brigade.ID,
		&brigade.Name,
		&brigade.LeaderID,
		&brigade.IsActive,
		&brigade.CreatedAt,
		&brigade.UpdatedAt,
		&leaderID,
		&leaderFirst,
		&leaderLast,
		&leaderEmail,
		&brigade.StudentCount,
	)
	if err != nil {
		return nil, err
	}
	if leaderID != nil {
		brigade.Leader = &models.User{
			ID:        *leaderID,
			FirstName: *leaderFirst,
			LastName:  *leaderLast,
			Email:     *leaderEmail,
		}
	}
	return &brigade, nil
}

// Create inserts a new brigade
func (r *BrigadeRepository) Create(ctx context.Context, brigade *models.Brigade) error {
	query := `
		INSERT INTO brigades (name, leader_id)
		VALUES ($1, $2)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, brigade.Name, brigade.LeaderID).
		Scan(&brigade.ID, &brigade.IsActive, &brigade.CreatedAt, &brigade.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrBrigadeNameExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidBrigadeLeader
		}
		return fmt.Errorf("error creating brigade: %w", err)
	}

	return nil
}

// GetByID retrieves an active brigade with its leader and student count
func (r *BrigadeRepository) GetByID(ctx context.Context, id string) (*models.Brigade, error) {
	sql, args, err := selectBrigadeQuery().
		Where(squirrel.Eq{"b.id": id, "b.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	brigade, err := scanBrigade(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBrigadeNotFound
		}
		return nil, fmt.Errorf("error retrieving brigade: %w", err)
	}

	return brigade, nil
}

// List retrieves active brigades, restricted to the given IDs when
// brigadeIDs is non-nil. A non-nil empty slice matches nothing.
func (r *BrigadeRepository) List(ctx context.Context, brigadeIDs []string, offset, limit int) ([]*models.Brigade, int64, error) {
	base := selectBrigadeQuery().Where(squirrel.Eq{"b.is_active": true})
	countBuilder := squirrel.Select("count(*)").
		From("brigades b").
		Where(squirrel.Eq{"b.is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if brigadeIDs != nil {
		base = base.Where(squirrel.Eq{"b.id": brigadeIDs})
		countBuilder = countBuilder.Where(squirrel.Eq{"b.id": brigadeIDs})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting brigades: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("b.name ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing brigades: %w", err)
	}
	defer rows.Close()

	var brigades []*models.Brigade
	for rows.Next() {
		brigade, err := scanBrigade(rows)
		if err != nil {
			return nil, 0, err
		}
		brigades = append(brigades, brigade)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return brigades, total, nil
}

// Update applies the non-nil fields of the request to a brigade
func (r *BrigadeRepository) Update(ctx context.Context, id string, req *dto.UpdateBrigadeRequest) error {
	builder := squirrel.Update("brigades").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if req.Name != nil {
		builder = builder.Set("name", *req.Name)
	}
	if req.LeaderID != nil {
		if *req.LeaderID == "" {
			builder = builder.Set("leader_id", nil)
		} else {
			builder = builder.Set("leader_id", *req.LeaderID)
		}
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrBrigadeNameExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidBrigadeLeader
		}
		return fmt.Errorf("error updating brigade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBrigadeNotFound
	}
	return nil
}

// Deactivate soft deletes a brigade
func (r *BrigadeRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE brigades SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating brigade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBrigadeNotFound
	}
	return nil
}

// CountActiveStudents counts the active students assigned to a brigade
func (r *BrigadeRepository) CountActiveStudents(ctx context.Context, brigadeID string) (int64, error) {
	query := `SELECT count(*) FROM students WHERE brigade_id = $1 AND is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query, brigadeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting brigade students: %w", err)
	}
	return count, nil
}

// ListByLeader retrieves the active brigades led by a user, with counts
func (r *BrigadeRepository) ListByLeader(ctx context.Context, leaderID string) ([]*models.Brigade, error) {
	sql, args, err := selectBrigadeQuery().
		Where(squirrel.Eq{"b.leader_id": leaderID, "b.is_active": true}).
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing led brigades: %w", err)
	}
	defer rows.Close()

	var brigades []*models.Brigade
	for rows.Next() {
		brigade, err := scanBrigade(rows)
		if err != nil {
			return nil, err
		}
		brigades = append(brigades, brigade)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return brigades, nil
}

// ListIDsByLeader yields the IDs of active brigades led by the given user
func (r *BrigadeRepository) ListIDsByLeader(ctx context.Context, leaderID string) ([]string, error) {
	query := `SELECT id FROM brigades WHERE leader_id = $1 AND is_active = true`

	rows, err := r.db.Query(ctx, query, leaderID)
	if err != nil {
		return nil, fmt.Errorf("error listing led brigades: %w", err)
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

// CountActive counts active brigades
func (r *BrigadeRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT count(*) FROM brigades WHERE is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting brigades: %w", err)
	}
	return count, nil
}
