package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/db"
)

// upsertAttendanceQuery writes the single record for a (student, day, session)
// triple. Re-marking overwrites the status and the marker instead of failing.
const upsertAttendanceQuery = `
	INSERT INTO attendance_records (student_id, event_day_id, session, status, marked_by, marked_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (student_id, event_day_id, session)
	DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, marked_at = EXCLUDED.marked_at
	RETURNING id, marked_at, created_at
`

// AttendanceRepository handles database operations for attendance records
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// Upsert records one attendance mark, overwriting any earlier mark for the
// same student, day and session
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	err := r.db.QueryRow(ctx, upsertAttendanceQuery,
		record.StudentID,
		record.EventDayID,
		record.Session,
		record.Status,
		record.MarkedBy,
	).Scan(&record.ID, &record.MarkedAt, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording attendance: %w", err)
	}
	return nil
}

// BulkUpsert records attendance for many students in one transaction. Either
// every record lands or none do.
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, records []*models.AttendanceRecord) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, record := range records {
			err := tx.QueryRow(ctx, upsertAttendanceQuery,
				record.StudentID,
				record.EventDayID,
				record.Session,
				record.Status,
				record.MarkedBy,
			).Scan(&record.ID, &record.MarkedAt, &record.CreatedAt)
			if err != nil {
				return fmt.Errorf("error recording attendance for student %s: %w", record.StudentID, err)
			}
		}
		return nil
	})
}

func selectAttendanceQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"ar.id", "ar.student_id", "ar.event_day_id", "ar.session", "ar.status",
		"ar.marked_by", "ar.marked_at", "ar.created_at",
		"s.temp_roll_number", "s.first_name", "s.last_name", "s.brigade_id",
		"d.date", "d.event_id",
	).
		From("attendance_records ar").
		Join("students s ON s.id = ar.student_id").
		Join("event_days d ON d.id = ar.event_day_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanAttendanceRecord(row pgx.Row) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	var student models.Student
	var day models.EventDay
	err := row.Scan(
		&record.ID,
		&record.StudentID,
		&record.EventDayID,
		&record.Session,
		&record.Status,
		&record.MarkedBy,
		&record.MarkedAt,
		&record.CreatedAt,
		&student.TempRollNumber,
		&student.FirstName,
		&student.LastName,
		&student.BrigadeID,
		&day.Date,
		&day.EventID,
	)
	if err != nil {
		return nil, err
	}
	student.ID = record.StudentID
	day.ID = record.EventDayID
	record.Student = &student
	record.EventDay = &day
	return &record, nil
}

func applyAttendanceScope(builder squirrel.SelectBuilder, brigadeIDs []string, studentID string) squirrel.SelectBuilder {
	if brigadeIDs != nil {
		builder = builder.Where(squirrel.Eq{"s.brigade_id": brigadeIDs})
	}
	if studentID != "" {
		builder = builder.Where(squirrel.Eq{"ar.student_id": studentID})
	}
	return builder
}

// List retrieves attendance records matching the filter. The scope arguments
// restrict visibility: a non-nil brigadeIDs limits to those brigades, a
// non-empty studentID limits to that student.
func (r *AttendanceRepository) List(ctx context.Context, filter *dto.AttendanceFilter, brigadeIDs []string, studentID string, offset, limit int) ([]*models.AttendanceRecord, int64, error) {
	base := selectAttendanceQuery()
	countBuilder := squirrel.Select("count(*)").
		From("attendance_records ar").
		Join("students s ON s.id = ar.student_id").
		Join("event_days d ON d.id = ar.event_day_id").
		PlaceholderFormat(squirrel.Dollar)

	base = applyAttendanceScope(base, brigadeIDs, studentID)
	countBuilder = applyAttendanceScope(countBuilder, brigadeIDs, studentID)

	if filter.EventDayID != "" {
		base = base.Where(squirrel.Eq{"ar.event_day_id": filter.EventDayID})
		countBuilder = countBuilder.Where(squirrel.Eq{"ar.event_day_id": filter.EventDayID})
	}
	if filter.BrigadeID != "" {
		base = base.Where(squirrel.Eq{"s.brigade_id": filter.BrigadeID})
		countBuilder = countBuilder.Where(squirrel.Eq{"s.brigade_id": filter.BrigadeID})
	}
	if filter.Session != "" {
		base = base.Where(squirrel.Eq{"ar.session": filter.Session})
		countBuilder = countBuilder.Where(squirrel.Eq{"ar.session": filter.Session})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting attendance records: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("ar.marked_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing attendance records: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByStudent retrieves every record of one student with its day and event
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT ar.id, ar.student_id, ar.event_day_id, ar.session, ar.status,
		       ar.marked_by, ar.marked_at, ar.created_at,
		       d.date, d.event_id, e.name
		FROM attendance_records ar
		JOIN event_days d ON d.id = ar.event_day_id
		JOIN events e ON e.id = d.event_id
		WHERE ar.student_id = $1
		ORDER BY d.date ASC, ar.session ASC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var record models.AttendanceRecord
		var day models.EventDay
		var eventName string
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.EventDayID,
			&record.Session,
			&record.Status,
			&record.MarkedBy,
			&record.MarkedAt,
			&record.CreatedAt,
			&day.Date,
			&day.EventID,
			&eventName,
		); err != nil {
			return nil, err
		}
		day.ID = record.EventDayID
		day.Event = &models.Event{ID: day.EventID, Name: eventName}
		record.EventDay = &day
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Count counts records, optionally limited to one status, restricted to the
// given brigades when brigadeIDs is non-nil and to one student when studentID
// is non-empty
func (r *AttendanceRepository) Count(ctx context.Context, status *models.AttendanceStatus, brigadeIDs []string, studentID string) (int64, error) {
	builder := squirrel.Select("count(*)").
		From("attendance_records ar").
		Join("students s ON s.id = ar.student_id").
		PlaceholderFormat(squirrel.Dollar)
	builder = applyAttendanceScope(builder, brigadeIDs, studentID)
	if status != nil {
		builder = builder.Where(squirrel.Eq{"ar.status": *status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting attendance records: %w", err)
	}
	return count, nil
}

// CountPresentBetween counts PRESENT marks created inside [from, to],
// restricted to the given brigades when brigadeIDs is non-nil
func (r *AttendanceRepository) CountPresentBetween(ctx context.Context, from, to time.Time, brigadeIDs []string) (int64, error) {
	builder := squirrel.Select("count(*)").
		From("attendance_records ar").
		Join("students s ON s.id = ar.student_id").
		Where(squirrel.Eq{"ar.status": models.StatusPresent}).
		Where(squirrel.GtOrEq{"ar.created_at": from}).
		Where(squirrel.LtOrEq{"ar.created_at": to}).
		PlaceholderFormat(squirrel.Dollar)
	if brigadeIDs != nil {
		builder = builder.Where(squirrel.Eq{"s.brigade_id": brigadeIDs})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting today's attendance: %w", err)
	}
	return count, nil
}
