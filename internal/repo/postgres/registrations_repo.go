package postgres

import (
	"context"
	"errors"

	"github.com/gatherhub/gatherhub/internal/domain/registration"
	"github.com/gatherhub/gatherhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Save upserts by the (user_id, event_id) composite key.

func (repo *RegistrationsRepo) Save(ctx context.Context, reg registration.Registration) error {
	return repo.observe("registrations.save", func() error {
		_, err := repo.pool.Exec(ctx, `
			INSERT INTO registrations (id, user_id, event_id, status, waitlist_position, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (user_id, event_id) DO UPDATE
			SET status = EXCLUDED.status,
			    waitlist_position = EXCLUDED.waitlist_position
		`, reg.RegistrationID, reg.UserID, reg.EventID, reg.Status, reg.WaitlistPosition, reg.CreatedAt)
		return err
	})
}

// Delete removes the record if present; absence is not an error.

func (repo *RegistrationsRepo) Delete(ctx context.Context, userID, eventID string) error {
	return repo.observe("registrations.delete", func() error {
		_, err := repo.pool.Exec(ctx,
			`DELETE FROM registrations WHERE user_id = $1 AND event_id = $2`,
			userID, eventID)
		return err
	})
}

func (repo *RegistrationsRepo) FindByUserAndEvent(ctx context.Context, userID, eventID string) (reg registration.Registration, err error) {
	err = repo.observe("registrations.find_by_user_and_event", func() error {
		return repo.pool.QueryRow(ctx, `
			SELECT id, user_id, event_id, status, waitlist_position, created_at
			FROM registrations
			WHERE user_id = $1 AND event_id = $2
		`, userID, eventID).Scan(&reg.RegistrationID, &reg.UserID, &reg.EventID, &reg.Status, &reg.WaitlistPosition, &reg.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = registration.ErrNotFound
		}

		return
	}

	return
}

func (repo *RegistrationsRepo) FindByUser(ctx context.Context, userID string) ([]registration.Registration, error) {
	return repo.queryMany(ctx, "registrations.find_by_user", `
		SELECT id, user_id, event_id, status, waitlist_position, created_at
		FROM registrations
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (repo *RegistrationsRepo) FindByEvent(ctx context.Context, eventID string) ([]registration.Registration, error) {
	return repo.queryMany(ctx, "registrations.find_by_event", `
		SELECT id, user_id, event_id, status, waitlist_position, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY status ASC, waitlist_position ASC NULLS FIRST, created_at ASC
	`, eventID)
}

func (repo *RegistrationsRepo) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	op := "registrations.count_active_by_event"
	var total int
	err := repo.observe(op, func() error {
		return repo.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'active'`,
			eventID).Scan(&total)
	})
	return total, err
}

func (repo *RegistrationsRepo) WaitlistByEvent(ctx context.Context, eventID string) ([]registration.Registration, error) {
	return repo.queryMany(ctx, "registrations.waitlist_by_event", `
		SELECT id, user_id, event_id, status, waitlist_position, created_at
		FROM registrations
		WHERE event_id = $1 AND status = 'waitlisted'
		ORDER BY waitlist_position ASC
	`, eventID)
}

func (repo *RegistrationsRepo) queryMany(ctx context.Context, op, query string, args ...any) (regs []registration.Registration, err error) {
	var rows pgx.Rows

	err = repo.observe(op, func() error {
		rows, err = repo.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	regs = make([]registration.Registration, 0)

	for rows.Next() {
		var r registration.Registration

		e := rows.Scan(&r.RegistrationID, &r.UserID, &r.EventID, &r.Status, &r.WaitlistPosition, &r.CreatedAt)

		if e != nil {
			err = e
			return
		}
		regs = append(regs, r)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues(op, "rows_err").Inc()
		}
		err = e
		return
	}

	return
}
