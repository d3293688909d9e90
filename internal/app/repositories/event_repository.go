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
	"github.com/meeras/brigadier/internal/db"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

const eventDayColumns = `id, event_id, date, fn_enabled, an_enabled, fn_start_time, fn_end_time, an_start_time, an_end_time, is_active, created_at, updated_at`

// EventRepository handles database operations for events and their days
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func scanEventDay(row pgx.Row) (*models.EventDay, error) {
	var day models.EventDay
	err := row.Scan(
		&day.ID,
		&day.EventID,
		&day.Date,
		&day.FNEnabled,
		&day.ANEnabled,
		&day.FNStartTime,
		&day.FNEndTime,
		&day.ANStartTime,
		&day.ANEndTime,
		&day.IsActive,
		&day.CreatedAt,
		&day.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// Create inserts an event together with its days in one transaction
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO events (name, description, start_date, end_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id, is_active, created_at, updated_at
		`
		err := tx.QueryRow(ctx, query,
			event.Name,
			event.Description,
			event.StartDate,
			event.EndDate,
		).Scan(&event.ID, &event.IsActive, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating event: %w", err)
		}

		dayQuery := `
			INSERT INTO event_days (event_id, date, fn_enabled, an_enabled, fn_start_time, fn_end_time, an_start_time, an_end_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, is_active, created_at, updated_at
		`
		for _, day := range event.EventDays {
			day.EventID = event.ID
			err := tx.QueryRow(ctx, dayQuery,
				day.EventID,
				day.Date,
				day.FNEnabled,
				day.ANEnabled,
				day.FNStartTime,
				day.FNEndTime,
				day.ANStartTime,
				day.ANEndTime,
			).Scan(&day.ID, &day.IsActive, &day.CreatedAt, &day.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error creating event day: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves an active event with its days
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, name, description, start_date, end_date, is_active, created_at, updated_at
		FROM events
		WHERE id = $1 AND is_active = true
	`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}

	days, err := r.ListDays(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.EventDays = days

	return event, nil
}

// List retrieves active events with their days, newest first
func (r *EventRepository) List(ctx context.Context, offset, limit int) ([]*models.Event, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM events WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	query := `
		SELECT id, name, description, start_date, end_date, is_active, created_at, updated_at
		FROM events
		WHERE is_active = true
		ORDER BY start_date DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	byID := make(map[string]*models.Event)
	var ids []string
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
		byID[event.ID] = event
		ids = append(ids, event.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		sql, args, err := squirrel.Select(eventDayColumns).
			From("event_days").
			Where(squirrel.Eq{"event_id": ids, "is_active": true}).
			OrderBy("date ASC").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return nil, 0, err
		}
		dayRows, err := r.db.Query(ctx, sql, args...)
		if err != nil {
			return nil, 0, fmt.Errorf("error listing event days: %w", err)
		}
		defer dayRows.Close()
		for dayRows.Next() {
			day, err := scanEventDay(dayRows)
			if err != nil {
				return nil, 0, err
			}
			if event, ok := byID[day.EventID]; ok {
				event.EventDays = append(event.EventDays, day)
			}
		}
		if err := dayRows.Err(); err != nil {
			return nil, 0, err
		}
	}

	return events, total, nil
}

// currentEventQuery selects the newest active event whose [start_date,
// end_date] range contains now. Both bounds compare against the same instant;
// an event whose end_date already passed today is not current.
func currentEventQuery(now time.Time) squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "description", "start_date", "end_date", "is_active", "created_at", "updated_at").
		From("events").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.LtOrEq{"start_date": now}).
		Where(squirrel.GtOrEq{"end_date": now}).
		OrderBy("start_date DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

// GetCurrent retrieves the active event whose date range covers now, together
// with its days. Returns the most recently started event when several overlap.
func (r *EventRepository) GetCurrent(ctx context.Context, now time.Time) (*models.Event, error) {
	sql, args, err := currentEventQuery(now).ToSql()
	if err != nil {
		return nil, err
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoCurrentEvent
		}
		return nil, fmt.Errorf("error retrieving current event: %w", err)
	}

	days, err := r.ListDays(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.EventDays = days

	return event, nil
}

// ListDays retrieves the active days of an event in date order
func (r *EventRepository) ListDays(ctx context.Context, eventID string) ([]*models.EventDay, error) {
	query := `
		SELECT ` + eventDayColumns + `
		FROM event_days
		WHERE event_id = $1 AND is_active = true
		ORDER BY date ASC
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing event days: %w", err)
	}
	defer rows.Close()

	var days []*models.EventDay
	for rows.Next() {
		day, err := scanEventDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// GetDayByID retrieves an active event day together with its parent event
func (r *EventRepository) GetDayByID(ctx context.Context, dayID string) (*models.EventDay, error) {
	query := `
		SELECT d.id, d.event_id, d.date, d.fn_enabled, d.an_enabled,
		       d.fn_start_time, d.fn_end_time, d.an_start_time, d.an_end_time,
		       d.is_active, d.created_at, d.updated_at,
		       e.id, e.name, e.description, e.start_date, e.end_date, e.is_active, e.created_at, e.updated_at
		FROM event_days d
		JOIN events e ON e.id = d.event_id
		WHERE d.id = $1 AND d.is_active = true AND e.is_active = true
	`

	var day models.EventDay
	var event models.Event
	err := r.db.QueryRow(ctx, query, dayID).Scan(
		&day.ID,
		&day.EventID,
		&day.Date,
		&day.FNEnabled,
		&day.ANEnabled,
		&day.FNStartTime,
		&day.FNEndTime,
		&day.ANStartTime,
		&day.ANEndTime,
		&day.IsActive,
		&day.CreatedAt,
		&day.UpdatedAt,
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventDayNotFound
		}
		return nil, fmt.Errorf("error retrieving event day: %w", err)
	}
	day.Event = &event

	return &day, nil
}

// Update applies the non-nil fields of the request to an event
func (r *EventRepository) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) error {
	builder := squirrel.Update("events").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if req.Name != nil {
		builder = builder.Set("name", *req.Name)
	}
	if req.Description != nil {
		builder = builder.Set("description", *req.Description)
	}
	if req.StartDate != nil {
		builder = builder.Set("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		builder = builder.Set("end_date", *req.EndDate)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// UpdateDay applies the non-nil fields of the request to an event day
func (r *EventRepository) UpdateDay(ctx context.Context, dayID string, req *dto.UpdateEventDayRequest) error {
	builder := squirrel.Update("event_days").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": dayID, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if req.FNEnabled != nil {
		builder = builder.Set("fn_enabled", *req.FNEnabled)
	}
	if req.ANEnabled != nil {
		builder = builder.Set("an_enabled", *req.ANEnabled)
	}
	if req.FNStartTime != nil {
		builder = builder.Set("fn_start_time", *req.FNStartTime)
	}
	if req.FNEndTime != nil {
		builder = builder.Set("fn_end_time", *req.FNEndTime)
	}
	if req.ANStartTime != nil {
		builder = builder.Set("an_start_time", *req.ANStartTime)
	}
	if req.ANEndTime != nil {
		builder = builder.Set("an_end_time", *req.ANEndTime)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventDayNotFound
	}
	return nil
}

// Deactivate soft deletes an event and its days in one transaction
func (r *EventRepository) Deactivate(ctx context.Context, id string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE events SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active = true`, id)
		if err != nil {
			return fmt.Errorf("error deactivating event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrEventNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE event_days SET is_active = false, updated_at = NOW() WHERE event_id = $1 AND is_active = true`, id)
		if err != nil {
			return fmt.Errorf("error deactivating event days: %w", err)
		}
		return nil
	})
}

// HasAttendance reports whether any attendance has been recorded for the event
func (r *EventRepository) HasAttendance(ctx context.Context, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_records ar
			JOIN event_days d ON d.id = ar.event_day_id
			WHERE d.event_id = $1
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking event attendance: %w", err)
	}
	return exists, nil
}

// CountActive counts active events
func (r *EventRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT count(*) FROM events WHERE is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return count, nil
}
