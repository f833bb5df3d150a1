package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitforge/internal/routines"
	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrInvalidQuantity   = errors.New("equipment quantity must be at least 1")
)

type stateStore interface {
	Get(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, userID string, state *State) error
}

// Service mutates per-user tracker state. Every mutation loads the
// state, applies the change and writes the whole state back.
type Service struct {
	store stateStore
	newID func() string
}

func NewService(store stateStore) *Service {
	return &Service{
		store: store,
		newID: uuid.NewString,
	}
}

func (s *Service) GetState(ctx context.Context, userID string) (*State, error) {
	return s.store.Get(ctx, userID)
}

// ToggleExercise flips the completed flag of one exercise. Toggling
// twice lands back on the original value.
func (s *Service) ToggleExercise(ctx context.Context, userID, day, exerciseID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.toggle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("day", day),
	)

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	exercises, ok := state.Workouts[day]
	if !ok {
		return nil, fmt.Errorf("%w: no %s in tracker", ErrExerciseNotFound, day)
	}

	found := false
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			exercises[i].Completed = !exercises[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s on %s", ErrExerciseNotFound, exerciseID, day)
	}

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// AddExercise appends the exercise to the day's list, assigning an id
// when missing. New exercises always start not completed.
func (s *Service) AddExercise(ctx context.Context, userID, day string, exercise routines.Exercise) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.addexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("day", day),
	)

	if exercise.Name == "" {
		return nil, errors.New("exercise name must not be empty")
	}

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if exercise.ID == "" {
		exercise.ID = s.newID()
	}
	exercise.Completed = false
	state.Workouts[day] = append(state.Workouts[day], exercise)

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// RemoveExercise deletes the exercise by id from the day's list.
func (s *Service) RemoveExercise(ctx context.Context, userID, day, exerciseID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.removeexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("day", day),
	)

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	exercises, ok := state.Workouts[day]
	if !ok {
		return nil, fmt.Errorf("%w: no %s in tracker", ErrExerciseNotFound, day)
	}

	kept := exercises[:0]
	for _, exercise := range exercises {
		if exercise.ID != exerciseID {
			kept = append(kept, exercise)
		}
	}
	if len(kept) == len(exercises) {
		return nil, fmt.Errorf("%w: %s on %s", ErrExerciseNotFound, exerciseID, day)
	}
	state.Workouts[day] = kept

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ReplaceWorkouts swaps the whole week for a freshly generated plan.
// The equipment list is untouched.
func (s *Service) ReplaceWorkouts(ctx context.Context, userID string, workouts map[string][]routines.Exercise) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.replaceworkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if len(workouts) == 0 {
		return nil, errors.New("workouts must not be empty")
	}

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for day, exercises := range workouts {
		for i := range exercises {
			if exercises[i].ID == "" {
				exercises[i].ID = s.newID()
			}
		}
		workouts[day] = exercises
	}
	state.Workouts = workouts

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// AddEquipment adds one item to the equipment list.
func (s *Service) AddEquipment(ctx context.Context, userID string, equipment Equipment) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.addequipment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if equipment.Name == "" {
		return nil, errors.New("equipment name must not be empty")
	}
	if equipment.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if equipment.ID == "" {
		equipment.ID = s.newID()
	}
	state.Equipment = append(state.Equipment, equipment)

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// RemoveEquipment deletes one item by id.
func (s *Service) RemoveEquipment(ctx context.Context, userID, equipmentID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.removeequipment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := state.Equipment[:0]
	for _, equipment := range state.Equipment {
		if equipment.ID != equipmentID {
			kept = append(kept, equipment)
		}
	}
	if len(kept) == len(state.Equipment) {
		return nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, equipmentID)
	}
	state.Equipment = kept

	if err := s.store.Save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}
