package preferences

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrPreferencesNotFound = errors.New("preferences not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *Preferences, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.preferences.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var p Preferences
	err = r.db.QueryRow(
		ctx,
		`SELECT
			user_id, primary_goal, experience_level, available_equipment,
			preferred_workout_days, workout_duration_minutes,
			injury_considerations, target_muscle_groups, created_at, updated_at
		FROM user_fitness_preferences
		WHERE user_id = $1;`,
		userID,
	).Scan(
		&p.UserID, &p.PrimaryGoal, &p.ExperienceLevel, &p.AvailableEquipment,
		&p.PreferredWorkoutDays, &p.WorkoutDurationMinutes,
		&p.InjuryConsiderations, &p.TargetMuscleGroups, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repo) Upsert(ctx context.Context, p *Preferences) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.preferences.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", p.UserID))

	now := time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO user_fitness_preferences
			(user_id, primary_goal, experience_level, available_equipment,
			preferred_workout_days, workout_duration_minutes,
			injury_considerations, target_muscle_groups, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			primary_goal = EXCLUDED.primary_goal,
			experience_level = EXCLUDED.experience_level,
			available_equipment = EXCLUDED.available_equipment,
			preferred_workout_days = EXCLUDED.preferred_workout_days,
			workout_duration_minutes = EXCLUDED.workout_duration_minutes,
			injury_considerations = EXCLUDED.injury_considerations,
			target_muscle_groups = EXCLUDED.target_muscle_groups,
			updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.PrimaryGoal, p.ExperienceLevel, p.AvailableEquipment,
		p.PreferredWorkoutDays, p.WorkoutDurationMinutes,
		p.InjuryConsiderations, p.TargetMuscleGroups, now,
	)
	return err
}
