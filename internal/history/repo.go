package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type ListParams struct {
	UserID string
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", entry.UserID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_stats
			(user_id, raw_input, type, exercise, weight, sets, reps, intensity, mood, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;`,
		entry.UserID, entry.RawInput, entry.Type,
		nullIfEmpty(entry.Exercise), entry.Weight, entry.Sets, entry.Reps,
		nullIfEmpty(entry.Intensity), nullIfEmpty(entry.Mood), nullIfEmpty(entry.Notes), entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", id))

	entry.ID = id
	return &entry, nil
}

// ListRecent returns up to limit newest entries for the user, newest first.
func (r *Repo) ListRecent(ctx context.Context, userID string, limit int) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listrecent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, user_id, raw_input, type, exercise, weight, sets, reps, intensity, mood, notes, created_at
		FROM workout_stats
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2entries(rows)
}

// List returns the requested page of the user's history, newest first,
// together with the total number of entries.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Entry, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))

	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_stats WHERE user_id = $1;`,
		params.UserID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	offset := (params.Page - 1) * params.Size
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, user_id, raw_input, type, exercise, weight, sets, reps, intensity, mood, notes, created_at
		FROM workout_stats
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;`,
		params.UserID, params.Size, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}

	entries, err := rows2entries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var exercise, intensity, mood, notes *string
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.RawInput, &e.Type,
			&exercise, &e.Weight, &e.Sets, &e.Reps,
			&intensity, &mood, &notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if exercise != nil {
			e.Exercise = *exercise
		}
		if intensity != nil {
			e.Intensity = *intensity
		}
		if mood != nil {
			e.Mood = *mood
		}
		if notes != nil {
			e.Notes = *notes
		}
		entries = append(entries, e)
	}
	return entries, nil
}
