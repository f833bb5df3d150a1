package routines

import "time"

// Exercise is a single entry in a day's workout list. IDs are assigned
// server-side when the model (or the user) did not supply one.
type Exercise struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          int      `json:"reps"`
	Completed     bool     `json:"completed"`
	TargetMuscles []string `json:"targetMuscles,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// Analysis is the model's own breakdown of a generated plan.
type Analysis struct {
	MuscleGroupsCovered map[string]int `json:"muscleGroupsCovered,omitempty"`
	WeeklyVolume        map[string]int `json:"weeklyVolume,omitempty"`
	RestPeriods         []string       `json:"restPeriods,omitempty"`
	Notes               []string       `json:"notes,omitempty"`
}

// Routine is a saved multi-day workout plan. Workouts maps a day label
// to an ordered list of exercises.
type Routine struct {
	ID          string                `json:"id,omitempty"`
	UserID      string                `json:"userId,omitempty"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Workouts    map[string][]Exercise `json:"workouts"`
	Analysis    *Analysis             `json:"analysis,omitempty"`
	CreatedAt   time.Time             `json:"createdAt,omitempty"`
	UpdatedAt   time.Time             `json:"updatedAt,omitempty"`
}
