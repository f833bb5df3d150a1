package tracker

import "github.com/2beens/fitforge/internal/routines"

// Equipment is one item the user owns, removable independently.
type Equipment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// State is the per-user tracker: the current week's workouts plus the
// equipment list. It lives in redis and is replaced wholesale when a
// freshly generated plan is loaded.
type State struct {
	Workouts  map[string][]routines.Exercise `json:"workouts"`
	Equipment []Equipment                    `json:"equipment"`
}

// DefaultState seeds new users with a sensible starter week.
func DefaultState() *State {
	return &State{
		Workouts: map[string][]routines.Exercise{
			"Monday": {
				{ID: "1", Name: "Dumbbell Chest Press", Sets: 3, Reps: 10},
				{ID: "2", Name: "Dumbbell Bicep Curls", Sets: 3, Reps: 12},
				{ID: "3", Name: "Dumbbell Tricep Pulls", Sets: 3, Reps: 12},
				{ID: "4", Name: "Pull-Ups", Sets: 3, Reps: 8},
				{ID: "5", Name: "Jump Rope", Sets: 1, Reps: 1},
				{ID: "6", Name: "Yoga", Sets: 1, Reps: 1},
			},
			"Tuesday": {
				{ID: "7", Name: "Ab Wheel Rollouts", Sets: 3, Reps: 10},
				{ID: "8", Name: "Jump Rope (Cardio)", Sets: 1, Reps: 1},
				{ID: "9", Name: "Football Drills/Play", Sets: 1, Reps: 1},
				{ID: "10", Name: "Yoga", Sets: 1, Reps: 1},
			},
			"Wednesday": {},
			"Thursday": {
				{ID: "11", Name: "Dumbbell Chest Press", Sets: 3, Reps: 10},
				{ID: "12", Name: "Dumbbell Bicep Curls", Sets: 3, Reps: 12},
				{ID: "13", Name: "Dumbbell Tricep Pulls", Sets: 3, Reps: 12},
				{ID: "14", Name: "Pull-Ups", Sets: 3, Reps: 8},
				{ID: "15", Name: "Jump Rope", Sets: 1, Reps: 1},
				{ID: "16", Name: "Yoga", Sets: 1, Reps: 1},
			},
			"Friday": {
				{ID: "17", Name: "Ab Wheel Rollouts", Sets: 3, Reps: 10},
				{ID: "18", Name: "Jump Rope (Cardio)", Sets: 1, Reps: 1},
				{ID: "19", Name: "Football Drills/Play", Sets: 1, Reps: 1},
				{ID: "20", Name: "Yoga", Sets: 1, Reps: 1},
			},
			"Saturday": {
				{ID: "21", Name: "Dumbbell Chest Press", Sets: 3, Reps: 10},
				{ID: "22", Name: "Dumbbell Bicep Curls", Sets: 3, Reps: 12},
				{ID: "23", Name: "Dumbbell Tricep Pulls", Sets: 3, Reps: 12},
				{ID: "24", Name: "Pull-Ups", Sets: 3, Reps: 8},
				{ID: "25", Name: "Jump Rope", Sets: 1, Reps: 1},
				{ID: "26", Name: "Yoga", Sets: 1, Reps: 1},
			},
			"Sunday": {
				{ID: "27", Name: "Full-Body Stretch", Sets: 1, Reps: 1},
			},
		},
		Equipment: []Equipment{
			{ID: "1", Name: "Dumbbells (10kg)", Quantity: 2},
			{ID: "2", Name: "Pull-up Bar", Quantity: 1},
			{ID: "3", Name: "Jump Rope", Quantity: 1},
			{ID: "4", Name: "Ab Wheel", Quantity: 1},
			{ID: "5", Name: "Yoga Mat", Quantity: 1},
			{ID: "6", Name: "Football", Quantity: 1},
		},
	}
}
