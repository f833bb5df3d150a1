package routines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRoutineNotFound = errors.New("routine not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Save(ctx context.Context, routine *Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", routine.UserID))

	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}

	workoutsJson, err := json.Marshal(routine.Workouts)
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}
	var analysisJson []byte
	if routine.Analysis != nil {
		if analysisJson, err = json.Marshal(routine.Analysis); err != nil {
			return nil, fmt.Errorf("marshal analysis: %w", err)
		}
	}

	now := time.Now()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO workout_routines
			(id, user_id, name, description, workouts, analysis, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7);`,
		routine.ID, routine.UserID, routine.Name, routine.Description,
		workoutsJson, analysisJson, now,
	); err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}

	routine.CreatedAt = now
	routine.UpdatedAt = now
	return routine, nil
}

// ListByUser returns all saved routines of the user, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.listbyuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, description, workouts, analysis, created_at, updated_at
		FROM workout_routines
		WHERE user_id = $1
		ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var list []Routine
	for rows.Next() {
		var routine Routine
		var workoutsJson, analysisJson []byte
		if err := rows.Scan(
			&routine.ID, &routine.UserID, &routine.Name, &routine.Description,
			&workoutsJson, &analysisJson, &routine.CreatedAt, &routine.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(workoutsJson, &routine.Workouts); err != nil {
			return nil, fmt.Errorf("unmarshal workouts for routine %s: %w", routine.ID, err)
		}
		if len(analysisJson) > 0 {
			if err := json.Unmarshal(analysisJson, &routine.Analysis); err != nil {
				return nil, fmt.Errorf("unmarshal analysis for routine %s: %w", routine.ID, err)
			}
		}
		list = append(list, routine)
	}
	return list, nil
}

// Delete removes the routine only when it belongs to the given user.
// Returns ErrRoutineNotFound otherwise, a user can never delete another
// user's routine.
func (r *Repo) Delete(ctx context.Context, id, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("routine.id", id),
		attribute.String("user.id", userID),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_routines WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}
