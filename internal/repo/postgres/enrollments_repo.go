package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/koinonia/internal/domain/enrollment"
	"github.com/geocoder89/koinonia/internal/domain/event"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEnrollmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EnrollmentsRepo {
	return &EnrollmentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *EnrollmentsRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return repo.pool.BeginTx(ctx, pgx.TxOptions{})
}

// AddParticipantsTx runs the additive reconcile inside tx: participants the
// user already has actively enrolled in the event are skipped, the rest are
// inserted. Nothing is written when every requested participant is a duplicate.
func (repo *EnrollmentsRepo) AddParticipantsTx(ctx context.Context, tx pgx.Tx, eventID, userID int64, requested []enrollment.Participant) (res enrollment.AddResult, err error) {
	res = enrollment.AddResult{EventID: eventID, UserID: userID, Added: []enrollment.Enrollment{}}

	var found int64
	err = observe(repo.prom, "enrollments.add.event_check", func() error {
		return tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1`, eventID).Scan(&found)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}
		return
	}

	// locking the user row serializes concurrent adds from the same user,
	// so two requests cannot both see the pair as empty
	err = observe(repo.prom, "enrollments.add.user_lock", func() error {
		return tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&found)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = user.ErrNotFound
		}
		return
	}

	active, err := repo.listActive(ctx, tx, "enrollments.add.load_active", eventID, userID)
	if err != nil {
		return
	}

	accepted := enrollment.Reconcile(active, requested)
	repo.prom.ObserveReconcile(len(accepted), len(requested)-len(accepted))

	if len(accepted) == 0 {
		return
	}

	var sb strings.Builder
	args := make([]any, 0, 2+2*len(accepted))
	args = append(args, userID, eventID)

	sb.WriteString(`INSERT INTO enrollments (user_id, event_id, participant_name, participant_age, status) VALUES `)
	for i, p := range accepted {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($1, $2, $%d, $%d, 'enrolled')", len(args)+1, len(args)+2)
		args = append(args, p.Name, p.Age)
	}
	sb.WriteString(` RETURNING id, user_id, event_id, participant_name, participant_age, status, created_at`)

	err = observe(repo.prom, "enrollments.add.insert", func() error {
		rows, qErr := tx.Query(ctx, sb.String(), args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()

		for rows.Next() {
			var e enrollment.Enrollment
			if sErr := rows.Scan(&e.ID, &e.UserID, &e.EventID, &e.Name, &e.Age, &e.Status, &e.CreatedAt); sErr != nil {
				return sErr
			}
			res.Added = append(res.Added, e)
		}
		return rows.Err()
	})
	if err != nil {
		err = fmt.Errorf("insert enrollments: %w", err)
		return
	}

	return
}

// AddParticipants wraps AddParticipantsTx in its own transaction.
func (repo *EnrollmentsRepo) AddParticipants(ctx context.Context, eventID, userID int64, requested []enrollment.Participant) (res enrollment.AddResult, err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		err = fmt.Errorf("begin add participants: %w", err)
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	res, err = repo.AddParticipantsTx(ctx, tx, eventID, userID, requested)
	if err != nil {
		return
	}

	err = tx.Commit(ctx)
	return
}

// ListActive returns the user's active participants for the event, oldest
// first. An empty result is enrollment.ErrNotFound.
func (repo *EnrollmentsRepo) ListActive(ctx context.Context, eventID, userID int64) ([]enrollment.Enrollment, error) {
	out, err := repo.listActive(ctx, repo.pool, "enrollments.list_active", eventID, userID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, enrollment.ErrNotFound
	}
	return out, nil
}

// Cancel marks every active enrollment of the pair as cancelled and returns
// how many rows changed.
func (repo *EnrollmentsRepo) Cancel(ctx context.Context, eventID, userID int64) (int64, error) {
	var affected int64

	err := observe(repo.prom, "enrollments.cancel", func() error {
		tag, err := repo.pool.Exec(ctx, `
			UPDATE enrollments
			SET status = 'cancelled'
			WHERE event_id = $1 AND user_id = $2 AND status = 'enrolled'`,
			eventID, userID,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("cancel enrollments: %w", err)
	}
	if affected == 0 {
		return 0, enrollment.ErrNotFound
	}
	return affected, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (repo *EnrollmentsRepo) listActive(ctx context.Context, q querier, op string, eventID, userID int64) ([]enrollment.Enrollment, error) {
	out := []enrollment.Enrollment{}

	err := observe(repo.prom, op, func() error {
		rows, err := q.Query(ctx, `
			SELECT id, user_id, event_id, participant_name, participant_age, status, created_at
			FROM enrollments
			WHERE event_id = $1 AND user_id = $2 AND status = 'enrolled'
			ORDER BY id ASC`, eventID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e enrollment.Enrollment
			if err := rows.Scan(&e.ID, &e.UserID, &e.EventID, &e.Name, &e.Age, &e.Status, &e.CreatedAt); err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return out, nil
}
