package plangen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitforge/internal/history"
	"github.com/2beens/fitforge/internal/openai"
	"github.com/2beens/fitforge/internal/preferences"
	"github.com/2beens/fitforge/internal/routines"
	"github.com/2beens/fitforge/internal/telemetry/metrics"
	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	systemMessage = "You are a precise fitness coach that creates efficient, focused workout routines."

	completionTemperature = 0.3
	completionMaxTokens   = 1000

	// history entries fetched vs actually shown in the prompt
	historyFetchLimit  = 5
	historyPromptLimit = 3
)

// ErrLimitReached means the free-tier generation quota is used up.
var ErrLimitReached = errors.New("generation limit reached")

type entitlements interface {
	CanGenerate(ctx context.Context, userID string) (bool, error)
	RecordGeneration(ctx context.Context, userID string) error
}

type preferencesGetter interface {
	Get(ctx context.Context, userID string) (*preferences.Preferences, error)
}

type historyLister interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]history.Entry, error)
}

type routineSaver interface {
	Save(ctx context.Context, routine *routines.Routine) (*routines.Routine, error)
}

type completionClient interface {
	CompleteJSON(ctx context.Context, params openai.CompleteJSONParams) (string, error)
}

type Service struct {
	entitlements entitlements
	preferences  preferencesGetter
	history      historyLister
	routines     routineSaver
	llm          completionClient
	metrics      *metrics.Manager
	nowFunc      func() time.Time
}

func NewService(
	entitlements entitlements,
	preferences preferencesGetter,
	history historyLister,
	routines routineSaver,
	llm completionClient,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		entitlements: entitlements,
		preferences:  preferences,
		history:      history,
		routines:     routines,
		llm:          llm,
		metrics:      metricsManager,
		nowFunc:      time.Now,
	}
}

// Generate produces a multi-day workout plan for the user. The
// entitlement gate runs first, then the user's profile and recent
// history feed the model prompt. In save mode the validated plan is
// also persisted as a named routine. Nothing is retried, any failure
// leaves no partial state behind.
func (s *Service) Generate(ctx context.Context, userID string, saveRoutine bool) (_ *routines.Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plangen.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("save.routine", saveRoutine),
	)

	startedAt := s.nowFunc()
	defer func() {
		s.metrics.HistPlanGenDuration.Observe(time.Since(startedAt).Seconds())
	}()

	canGenerate, err := s.entitlements.CanGenerate(ctx, userID)
	if err != nil {
		s.metrics.CounterPlanGenFailures.WithLabelValues("entitlement").Inc()
		return nil, fmt.Errorf("check generation limit: %w", err)
	}
	if !canGenerate {
		s.metrics.CounterPlanGenFailures.WithLabelValues("entitlement").Inc()
		return nil, ErrLimitReached
	}

	prefs, err := s.preferences.Get(ctx, userID)
	if errors.Is(err, preferences.ErrPreferencesNotFound) {
		log.Debugf("no preferences for user %s, using defaults", userID)
		prefs = preferences.Default(userID)
	} else if err != nil {
		s.metrics.CounterPlanGenFailures.WithLabelValues("context").Inc()
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	recent, err := s.history.ListRecent(ctx, userID, historyFetchLimit)
	if err != nil {
		s.metrics.CounterPlanGenFailures.WithLabelValues("context").Inc()
		return nil, fmt.Errorf("get workout history: %w", err)
	}

	content, err := s.llm.CompleteJSON(ctx, openai.CompleteJSONParams{
		SystemMessage: systemMessage,
		UserMessage:   buildPrompt(prefs, recent),
		Temperature:   completionTemperature,
		MaxTokens:     completionMaxTokens,
	})
	if err != nil {
		s.metrics.CounterPlanGenFailures.WithLabelValues("llm").Inc()
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	plan, err := parseAndValidatePlan(content)
	if err != nil {
		s.metrics.CounterPlanGenFailures.WithLabelValues("validation").Inc()
		log.Errorf("invalid plan from model for user %s: %s", userID, err)
		return nil, err
	}
	plan.UserID = userID

	if saveRoutine {
		plan.Name = fmt.Sprintf("AI Workout Plan - %s", s.nowFunc().Format("Jan 2, 2006"))
		plan.Description = fmt.Sprintf(
			"Generated for a %s goal at %s level.",
			prefs.PrimaryGoal, prefs.ExperienceLevel,
		)
		if plan, err = s.routines.Save(ctx, plan); err != nil {
			s.metrics.CounterPlanGenFailures.WithLabelValues("persistence").Inc()
			return nil, fmt.Errorf("save routine: %w", err)
		}
	}

	// usage is booked last, a failed save must not burn the quota
	if err := s.entitlements.RecordGeneration(ctx, userID); err != nil {
		log.Errorf("failed to record generation for user %s: %s", userID, err)
	}

	s.metrics.CounterPlansGenerated.Inc()
	return plan, nil
}

// parseAndValidatePlan enforces the shape contract on the model output:
// workouts must be an object, every day must map to a list, every
// exercise gets an id when missing and starts not completed.
func parseAndValidatePlan(content string) (*routines.Routine, error) {
	var raw struct {
		Name        string                     `json:"name"`
		Description string                     `json:"description"`
		Workouts    map[string]json.RawMessage `json:"workouts"`
		Analysis    *routines.Analysis         `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("invalid json response from model: %w", err)
	}
	if raw.Workouts == nil {
		return nil, errors.New("invalid workout structure in model response")
	}

	workouts := make(map[string][]routines.Exercise, len(raw.Workouts))
	for day, rawExercises := range raw.Workouts {
		var exercises []routines.Exercise
		if err := json.Unmarshal(rawExercises, &exercises); err != nil {
			return nil, fmt.Errorf("invalid exercises array for %s", day)
		}
		for i := range exercises {
			if exercises[i].ID == "" {
				exercises[i].ID = uuid.NewString()
			}
			exercises[i].Completed = false
		}
		workouts[day] = exercises
	}

	return &routines.Routine{
		Name:        raw.Name,
		Description: raw.Description,
		Workouts:    workouts,
		Analysis:    raw.Analysis,
	}, nil
}

func buildPrompt(prefs *preferences.Preferences, recent []history.Entry) string {
	historyLines := make([]string, 0, historyPromptLimit)
	for i, entry := range recent {
		if i == historyPromptLimit {
			break
		}
		historyLines = append(
			historyLines,
			fmt.Sprintf("- %s: %s", entry.CreatedAt.Format("2006-01-02"), entry.RawInput),
		)
	}
	historySection := "No recent history"
	if len(historyLines) > 0 {
		historySection = strings.Join(historyLines, "\n")
	}

	return fmt.Sprintf(`
Generate a concise workout routine based on:

User Profile:
- Goal: %s
- Level: %s
- Equipment: %s
- Days/week: %d
- Duration: %d min
- Injuries: %s
- Target: %s

Recent History:
%s

Focus on:
1. Progressive overload
2. Proper form
3. Rest periods
4. Exercise variety
5. Injury prevention

Return a JSON workout plan with:
{
  "name": "Brief routine name",
  "description": "2-3 sentence focus",
  "workouts": {
    "day1": [{
      "name": "Exercise",
      "sets": number,
      "reps": number,
      "notes": "Form cues",
      "targetMuscles": ["primary", "secondary"]
    }]
  },
  "analysis": {
    "muscleGroupsCovered": {"muscle": frequency},
    "weeklyVolume": {"muscle": total_sets},
    "restPeriods": ["guidelines"],
    "notes": ["key points"]
  }
}`,
		prefs.PrimaryGoal,
		prefs.ExperienceLevel,
		joinOr(prefs.AvailableEquipment, "basic gym equipment"),
		prefs.PreferredWorkoutDays,
		prefs.WorkoutDurationMinutes,
		joinOr(prefs.InjuryConsiderations, "none"),
		joinOr(prefs.TargetMuscleGroups, "full body"),
		historySection,
	)
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
