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

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func selectStudentQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"s.id", "s.temp_roll_number", "s.first_name", "s.last_name",
		"s.email", "s.phone", "s.brigade_id", "s.user_id", "s.is_active",
		"s.created_at", "s.updated_at",
		"b.id", "b.name",
	).
		From("students s").
		LeftJoin("brigades b ON b.id = s.brigade_id AND b.is_active = true").
		PlaceholderFormat(squirrel.Dollar)
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var brigadeID, brigadeName *string
	err := row.Scan(
		&student.ID,
		&student.TempRollNumber,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.BrigadeID,
		&student.UserID,
		&student.IsActive,
		&student.CreatedAt,
		&student.UpdatedAt,
		&brigadeID,
		&brigadeName,
	)
	if err != nil {
		return nil, err
	}
	if brigadeID != nil {
		student.Brigade = &models.Brigade{ID: *brigadeID, Name: *brigadeName}
	}
	return &student, nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (temp_roll_number, first_name, last_name, email, phone, brigade_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.TempRollNumber,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.BrigadeID,
		student.UserID,
	).Scan(&student.ID, &student.IsActive, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRollNumberExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrBrigadeNotFound
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves an active student with its brigade
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	sql, args, err := selectStudentQuery().
		Where(squirrel.Eq{"s.id": id, "s.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByRollNumber retrieves an active student by temporary roll number
func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	sql, args, err := selectStudentQuery().
		Where(squirrel.Eq{"s.temp_roll_number": rollNumber, "s.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by roll number: %w", err)
	}

	return student, nil
}

// GetByUserID retrieves the active student linked to a user account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	sql, args, err := selectStudentQuery().
		Where(squirrel.Eq{"s.user_id": userID, "s.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student for user: %w", err)
	}

	return student, nil
}

// GetIDByUser resolves the active student row linked to a user account.
// Returns an empty ID when the user has no student record.
func (r *StudentRepository) GetIDByUser(ctx context.Context, userID string) (string, error) {
	query := `SELECT id FROM students WHERE user_id = $1 AND is_active = true`

	var id string
	err := r.db.QueryRow(ctx, query, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error resolving student for user: %w", err)
	}
	return id, nil
}

// studentSearchCond matches the search term against both name parts, the roll
// number and the email.
func studentSearchCond(search string) squirrel.Or {
	pattern := "%" + search + "%"
	return squirrel.Or{
		squirrel.ILike{"s.first_name": pattern},
		squirrel.ILike{"s.last_name": pattern},
		squirrel.ILike{"s.temp_roll_number": pattern},
		squirrel.ILike{"s.email": pattern},
	}
}

// List retrieves active students matching the filter, restricted to the given
// brigades when brigadeIDs is non-nil. A non-nil empty slice matches nothing.
func (r *StudentRepository) List(ctx context.Context, filter *dto.StudentFilter, brigadeIDs []string, offset, limit int) ([]*models.Student, int64, error) {
	base := selectStudentQuery().Where(squirrel.Eq{"s.is_active": true})
	countBuilder := squirrel.Select("count(*)").
		From("students s").
		Where(squirrel.Eq{"s.is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if brigadeIDs != nil {
		base = base.Where(squirrel.Eq{"s.brigade_id": brigadeIDs})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.brigade_id": brigadeIDs})
	}
	if filter.BrigadeID != "" {
		base = base.Where(squirrel.Eq{"s.brigade_id": filter.BrigadeID})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.brigade_id": filter.BrigadeID})
	}
	if filter.Search != "" {
		cond := studentSearchCond(filter.Search)
		base = base.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("s.temp_roll_number ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// ListActiveByIDs retrieves the active students among the given IDs
func (r *StudentRepository) ListActiveByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := selectStudentQuery().
		Where(squirrel.Eq{"s.id": ids, "s.is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students by ids: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Update applies the non-nil fields of the request to a student
func (r *StudentRepository) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) error {
	builder := squirrel.Update("students").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if req.FirstName != nil {
		builder = builder.Set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		builder = builder.Set("last_name", *req.LastName)
	}
	if req.Email != nil {
		builder = builder.Set("email", *req.Email)
	}
	if req.Phone != nil {
		builder = builder.Set("phone", *req.Phone)
	}
	if req.BrigadeID != nil {
		if *req.BrigadeID == "" {
			builder = builder.Set("brigade_id", nil)
		} else {
			builder = builder.Set("brigade_id", *req.BrigadeID)
		}
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrBrigadeNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Deactivate soft deletes a student
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE students SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// CountActive counts active students, restricted to the given brigades when
// brigadeIDs is non-nil
func (r *StudentRepository) CountActive(ctx context.Context, brigadeIDs []string) (int64, error) {
	builder := squirrel.Select("count(*)").
		From("students").
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar)
	if brigadeIDs != nil {
		builder = builder.Where(squirrel.Eq{"brigade_id": brigadeIDs})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}
