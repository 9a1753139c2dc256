package postgres

import (
	"context"
	"errors"

	"github.com/gatherhub/gatherhub/internal/domain/event"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool) *EventsRepo {
	return &EventsRepo{
		pool: pool,
	}
}

const eventColumns = `id, title, description, date, location, capacity, organizer, status, waitlist_enabled, created_at, updated_at`

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.EventID, e.Title, e.Description, e.Date, e.Location, e.Capacity, e.Organizer, e.Status, e.WaitlistEnabled, e.CreatedAt, e.UpdatedAt)

	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event
	err := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id).
		Scan(&e.EventID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Capacity, &e.Organizer, &e.Status, &e.WaitlistEnabled, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}

		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`

	var args []interface{}

	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}

	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]event.Event, 0)

	for rows.Next() {
		var e event.Event

		err = rows.Scan(&e.EventID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Capacity, &e.Organizer, &e.Status, &e.WaitlistEnabled, &e.CreatedAt, &e.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	// read-modify-write keeps the partial-update rules in one place (the factory)
	current, err := r.GetByID(ctx, id)

	if err != nil {
		return event.Event{}, err
	}

	e := event.ApplyUpdate(current, req)

	var tag pgconn.CommandTag

	tag, err = r.pool.Exec(ctx, `
		UPDATE events
		SET title = $2,
		    description = $3,
		    date = $4,
		    location = $5,
		    capacity = $6,
		    organizer = $7,
		    status = $8,
		    waitlist_enabled = $9,
		    updated_at = $10
		WHERE id = $1
	`, id, e.Title, e.Description, e.Date, e.Location, e.Capacity, e.Organizer, e.Status, e.WaitlistEnabled, e.UpdatedAt)

	if err != nil {
		return event.Event{}, err
	}

	if tag.RowsAffected() == 0 {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}

	return nil
}
