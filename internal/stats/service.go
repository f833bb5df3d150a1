package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/fitforge/internal/history"
	"github.com/2beens/fitforge/internal/openai"
	"github.com/2beens/fitforge/internal/telemetry/metrics"
	"github.com/2beens/fitforge/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	systemMessage = "You are a fitness tracking assistant that analyzes workout-related text and extracts structured data."

	completionTemperature = 0.1
)

// Processed is the structured form extracted from one free-text status
// update. Optional fields stay empty when the text never mentions them.
type Processed struct {
	Type      string   `json:"type"`
	Exercise  string   `json:"exercise,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Sets      *int     `json:"sets,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Intensity string   `json:"intensity,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

type historyAppender interface {
	Add(ctx context.Context, entry history.Entry) (*history.Entry, error)
}

type completionClient interface {
	CompleteJSON(ctx context.Context, params openai.CompleteJSONParams) (string, error)
}

type Service struct {
	history historyAppender
	llm     completionClient
	metrics *metrics.Manager
	nowFunc func() time.Time
}

func NewService(history historyAppender, llm completionClient, metricsManager *metrics.Manager) *Service {
	return &Service{
		history: history,
		llm:     llm,
		metrics: metricsManager,
		nowFunc: time.Now,
	}
}

// Process classifies the raw text as an intention or a completion,
// extracts whatever structured fields the model found, and appends the
// result to the user's history. Unparseable model output is an error
// and nothing gets persisted.
func (s *Service) Process(ctx context.Context, userID, input string) (_ *Processed, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.process")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	content, err := s.llm.CompleteJSON(ctx, openai.CompleteJSONParams{
		SystemMessage: systemMessage,
		UserMessage:   buildPrompt(input),
		Temperature:   completionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	var processed Processed
	if err := json.Unmarshal([]byte(content), &processed); err != nil {
		log.Errorf("failed to parse model response for user %s: %s", userID, err)
		return nil, fmt.Errorf("invalid json response from model: %w", err)
	}

	if processed.Type == "" {
		processed.Type = history.TypeCompletion
	}
	span.SetAttributes(attribute.String("stats.type", processed.Type))

	if _, err := s.history.Add(ctx, history.Entry{
		UserID:    userID,
		RawInput:  input,
		Type:      processed.Type,
		Exercise:  processed.Exercise,
		Weight:    processed.Weight,
		Sets:      processed.Sets,
		Reps:      processed.Reps,
		Intensity: processed.Intensity,
		Mood:      processed.Mood,
		Notes:     processed.Notes,
		CreatedAt: s.nowFunc(),
	}); err != nil {
		return nil, fmt.Errorf("save workout stats: %w", err)
	}

	s.metrics.CounterStatsProcessed.Inc()
	return &processed, nil
}

func buildPrompt(input string) string {
	return fmt.Sprintf(`
Analyze the following workout-related text and extract relevant information.
If it's about a future intention, classify as "intention". If it's about a completed workout, classify as "completion".

Text: %q

Return a JSON object with these fields (include only if mentioned or clearly implied):
{
  "type": "intention" or "completion",
  "exercise": name of exercise if mentioned,
  "weight": weight in lbs if mentioned (number only),
  "sets": number of sets if mentioned (number only),
  "reps": number of reps if mentioned (number only),
  "intensity": "low", "medium", or "high" based on context,
  "mood": emotional state or energy level if mentioned,
  "notes": any additional relevant information
}`, input)
}
