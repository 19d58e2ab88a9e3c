package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) users() *UsersRepo {
	return NewUsersRepo(r.pool, r.prom)
}

const eventColumns = `e.id, e.title, e.description, e.attractions, e.location, e.event_date,
	e.price_cents, e.is_free, e.image_url, e.created_by_id, e.created_at`

func scanEvent(row pgx.Row, extra ...any) (event.Event, error) {
	var e event.Event
	dest := []any{
		&e.ID, &e.Title, &e.Description, &e.Attractions, &e.Location, &e.Date,
		&e.PriceCents, &e.IsFree, &e.ImageURL, &e.CreatedByID, &e.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return e, err
}

func (r *EventsRepo) Create(ctx context.Context, in event.NewEvent) (event.Event, error) {
	var e event.Event

	err := observe(r.prom, "events.create", func() error {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO events AS e (title, description, attractions, location, event_date,
				price_cents, is_free, image_url, created_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+eventColumns,
			in.Title, in.Description, in.Attractions, in.Location, in.Date,
			in.PriceCents, in.IsFree, in.ImageURL, in.CreatedByID,
		)

		var scanErr error
		e, scanErr = scanEvent(row)
		return scanErr
	})

	if err != nil {
		if isForeignKeyViolation(err) {
			// the only foreign key on events is its creator
			return event.Event{}, user.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	return e, nil
}

// List returns every event ordered by date then id, each with its count of
// active enrollments.
func (r *EventsRepo) List(ctx context.Context) ([]event.Listing, error) {
	var out []event.Listing

	err := observe(r.prom, "events.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+eventColumns+`,
				COUNT(en.id) FILTER (WHERE en.status = 'enrolled') AS subscribers_count
			FROM events e
			LEFT JOIN enrollments en ON en.event_id = e.id
			GROUP BY e.id
			ORDER BY e.event_date ASC, e.id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var l event.Listing
			l.Event, err = scanEvent(rows, &l.Subscribers)
			if err != nil {
				return err
			}
			out = append(out, l)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return out, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Listing, error) {
	var l event.Listing

	err := observe(r.prom, "events.get_by_id", func() error {
		row := r.pool.QueryRow(ctx, `
			SELECT `+eventColumns+`,
				COUNT(en.id) FILTER (WHERE en.status = 'enrolled') AS subscribers_count
			FROM events e
			LEFT JOIN enrollments en ON en.event_id = e.id
			WHERE e.id = $1
			GROUP BY e.id`, id)

		var scanErr error
		l.Event, scanErr = scanEvent(row, &l.Subscribers)
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Listing{}, event.ErrNotFound
		}
		return event.Listing{}, fmt.Errorf("get event: %w", err)
	}

	return l, nil
}

// ListEnrolledByUser returns the events where the user has at least one
// active enrollment. An unknown user yields user.ErrNotFound; a known user
// without enrollments yields an empty slice.
func (r *EventsRepo) ListEnrolledByUser(ctx context.Context, userID int64) ([]event.UserListing, error) {
	var out []event.UserListing

	err := observe(r.prom, "events.list_enrolled_by_user", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+eventColumns+`,
				(SELECT COUNT(*) FROM enrollments s
					WHERE s.event_id = e.id AND s.status = 'enrolled') AS subscribers_count,
				COUNT(mine.id) AS participants_count
			FROM events e
			JOIN enrollments mine
				ON mine.event_id = e.id AND mine.user_id = $1 AND mine.status = 'enrolled'
			GROUP BY e.id
			ORDER BY e.event_date ASC, e.id ASC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var ul event.UserListing
			ul.Event, err = scanEvent(rows, &ul.Subscribers, &ul.Participants)
			if err != nil {
				return err
			}
			out = append(out, ul)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list enrolled events: %w", err)
	}

	if len(out) > 0 {
		return out, nil
	}

	// an empty list only means something for a known user
	if _, err := r.users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return []event.UserListing{}, nil
}
