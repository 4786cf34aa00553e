package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

// MaxPainLevel is the top of the 0-10 pain scale.
const MaxPainLevel = 10

// lowPainThreshold and below counts as low pain.
const lowPainThreshold = 3

var ErrIncompleteForm = errors.New("please fill all required fields")

// Outcome is the follow-up after a completion is saved.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeLowPain
	OutcomeIncreasePrompt
	OutcomeDecreasePrompt
	OutcomeRemovePrompt
)

// Message returns the text shown for the outcome. Prompt outcomes expect a
// yes/no answer.
func (o Outcome) Message() string {
	switch o {
	case OutcomeRemovePrompt:
		return "Your pain level has been high for this exercise. Would you like to remove it from your routine?"
	case OutcomeDecreasePrompt:
		return "Your pain level is high. Would you like to decrease the difficulty for next time?"
	case OutcomeIncreasePrompt:
		return "Your pain level is low and you've had consistent low pain for 3 days. Would you like to increase the difficulty for next time?"
	case OutcomeLowPain:
		return "Your pain level is low. Keep it up for 3 days to unlock higher difficulty!"
	default:
		return "Exercise completed successfully"
	}
}

// IsPrompt reports whether the outcome asks the user a question.
func (o Outcome) IsPrompt() bool {
	return o == OutcomeRemovePrompt || o == OutcomeDecreasePrompt || o == OutcomeIncreasePrompt
}

// outcomeOf applies the server flags in priority order: remove, decrease,
// increase, then the client-side low-pain hint.
func outcomeOf(r *api.CompletionResult, painLevel int) Outcome {
	switch {
	case r.ShouldRemove:
		return OutcomeRemovePrompt
	case r.ShouldDecrease:
		return OutcomeDecreasePrompt
	case r.ShouldIncrease:
		return OutcomeIncreasePrompt
	case painLevel <= lowPainThreshold:
		return OutcomeLowPain
	default:
		return OutcomeSuccess
	}
}

const (
	MsgExerciseLoadFailed = "Failed to load your exercises. Please check your connection and try again."
	MsgCompletionFailed   = "Failed to save exercise completion. Please try again."
	MsgIncreased          = "Exercise difficulty increased for next time!"
	MsgIncreaseFailed     = "Failed to increase difficulty. Please try again."
	MsgDecreased          = "Exercise difficulty decreased for next time!"
	MsgDecreaseFailed     = "Failed to decrease difficulty. Please try again."
	MsgRemovedHighPain    = "This exercise has been removed from your routine due to high pain level. Please consult your healthcare provider."
	MsgKept               = "Exercise kept in your routine. Consider modifying how you perform it or consulting your healthcare provider."
	MsgRemoved            = "This exercise has been removed from your routine. You can add it back on the dashboard."
	MsgRemovalFailed      = "Failed to process your request"
	MsgInvalidExerciseID  = "Invalid exercise ID"
	MsgIncompleteForm     = "Please fill all required fields"
)

var ErrInvalidExerciseID = errors.New("invalid exercise id")

// ExerciseDetail pairs a catalogue exercise with the user's assignment.
type ExerciseDetail struct {
	Exercise   *api.Exercise
	Assignment *api.UserExercise
}

type ExerciseService interface {
	Detail(ctx context.Context, exerciseID, userExerciseID int64) (*ExerciseDetail, error)
	Complete(ctx context.Context, userExerciseID int64, reps, sets, painLevel int) (Outcome, error)
	ConfirmIncrease(ctx context.Context, userExerciseID int64) error
	ConfirmDecrease(ctx context.Context, userExerciseID int64) error
	ConfirmRemoval(ctx context.Context, userExerciseID int64, remove bool) error
	Remove(ctx context.Context, userExerciseID int64) error
}

type exerciseService struct {
	caller session.Caller
}

func NewExerciseService(caller session.Caller) ExerciseService {
	return &exerciseService{caller: caller}
}

// Detail loads the exercise and, when userExerciseID is non-zero, the
// assignment.
func (s *exerciseService) Detail(ctx context.Context, exerciseID, userExerciseID int64) (*ExerciseDetail, error) {
	if exerciseID <= 0 {
		return nil, ErrInvalidExerciseID
	}
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*ExerciseDetail, error) {
		var d ExerciseDetail
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Exercise, err = c.GetExercise(ctx, exerciseID)
			return err
		})
		if userExerciseID > 0 {
			g.Go(func() (err error) {
				d.Assignment, err = c.GetUserExercise(ctx, userExerciseID)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &d, nil
	})
}

func (s *exerciseService) Complete(ctx context.Context, userExerciseID int64, reps, sets, painLevel int) (Outcome, error) {
	if userExerciseID <= 0 {
		return OutcomeSuccess, ErrInvalidExerciseID
	}
	if reps <= 0 || sets <= 0 || painLevel < 0 || painLevel > MaxPainLevel {
		return OutcomeSuccess, ErrIncompleteForm
	}

	res, err := session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.CompletionResult, error) {
		return c.UpdateCompletion(ctx, userExerciseID, api.CompletionUpdate{
			Reps:      reps,
			Sets:      sets,
			PainLevel: painLevel,
			Completed: true,
		})
	})
	if err != nil {
		return OutcomeSuccess, err
	}
	return outcomeOf(res, painLevel), nil
}

func (s *exerciseService) ConfirmIncrease(ctx context.Context, userExerciseID int64) error {
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.ConfirmIncrease(ctx, userExerciseID)
	})
}

func (s *exerciseService) ConfirmDecrease(ctx context.Context, userExerciseID int64) error {
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.ConfirmDecrease(ctx, userExerciseID)
	})
}

func (s *exerciseService) ConfirmRemoval(ctx context.Context, userExerciseID int64, remove bool) error {
	if userExerciseID <= 0 {
		return ErrInvalidExerciseID
	}
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.ConfirmRemoval(ctx, userExerciseID, remove)
	})
}

func (s *exerciseService) Remove(ctx context.Context, userExerciseID int64) error {
	if userExerciseID <= 0 {
		return ErrInvalidExerciseID
	}
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.RemoveExercise(ctx, userExerciseID)
	})
}
