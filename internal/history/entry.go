package history

import "time"

const (
	TypeIntention  = "intention"
	TypeCompletion = "completion"
)

// Entry is one appended workout status update: the raw text the user
// typed plus whatever structured fields were extracted from it.
// Entries are never updated or deleted.
type Entry struct {
	ID       int    `json:"id"`
	UserID   string `json:"userId"`
	RawInput string `json:"rawInput"`
	Type     string `json:"type"`

	// extracted fields, present only when the text mentions them
	Exercise  string   `json:"exercise,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Sets      *int     `json:"sets,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Intensity string   `json:"intensity,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	Notes     string   `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
