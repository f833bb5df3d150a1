package preferences

import "time"

// Preferences holds the fitness profile a user fills in during
// onboarding. One row per user.
type Preferences struct {
	UserID                 string    `json:"userId"`
	PrimaryGoal            string    `json:"primaryGoal"`
	ExperienceLevel        string    `json:"experienceLevel"`
	AvailableEquipment     []string  `json:"availableEquipment"`
	PreferredWorkoutDays   int       `json:"preferredWorkoutDays"`
	WorkoutDurationMinutes int       `json:"workoutDurationMinutes"`
	InjuryConsiderations   []string  `json:"injuryConsiderations"`
	TargetMuscleGroups     []string  `json:"targetMuscleGroups"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Default returns the profile assumed for users who never finished
// onboarding. Plan generation falls back to these values.
func Default(userID string) *Preferences {
	return &Preferences{
		UserID:                 userID,
		PrimaryGoal:            "general fitness",
		ExperienceLevel:        "beginner",
		AvailableEquipment:     []string{"basic gym equipment"},
		PreferredWorkoutDays:   3,
		WorkoutDurationMinutes: 60,
		InjuryConsiderations:   nil,
		TargetMuscleGroups:     []string{"full body"},
	}
}
