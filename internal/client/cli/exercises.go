package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
)

// Dashboard prints the assigned, active and inactive exercise lists.
func (a *App) Dashboard(ctx context.Context) error {
	d, err := runAsync(ctx, a.dashboard.Load)
	if err != nil {
		return a.fail(err, services.MsgDashboardFailed)
	}

	a.println("Active exercises:")
	if len(d.Active) == 0 {
		a.println("  (none)")
	}
	for _, e := range d.Active {
		done := " "
		if e.Completed {
			done = "x"
		}
		a.printf("  [%s] %-4d %s  %d x %d  (assignment %d)\n", done, e.ID, e.Name, e.Sets, e.Reps, e.UserExerciseID)
	}

	if len(d.Inactive) > 0 {
		a.println("Removed exercises (reactivate <assignment>):")
		for _, e := range d.Inactive {
			a.printf("      %-4d %s  (assignment %d)\n", e.ID, e.Name, e.UserExerciseID)
		}
	}
	a.printf("Assigned in total: %d\n", len(d.Assigned))
	return nil
}

// Exercise shows a catalogue exercise and, when given, its assignment.
// Usage: exercise <id> [assignment]
func (a *App) Exercise(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: exercise <id> [assignment]")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(services.ErrInvalidExerciseID, "")
	}
	var assignment int64
	if len(args) > 1 {
		if assignment, err = parseID(args[1]); err != nil {
			return a.fail(services.ErrInvalidExerciseID, "")
		}
	}

	d, err := runAsync(ctx, func(ctx context.Context) (*services.ExerciseDetail, error) {
		return a.exercises.Detail(ctx, id, assignment)
	})
	if err != nil {
		return a.fail(err, services.MsgExerciseLoadFailed)
	}

	e := d.Exercise
	a.printf("%s (%s)\n", e.Name, e.DifficultyLevel)
	if e.VideoLink != "" {
		a.printf("Video: %s\n", e.VideoLink)
	}
	if e.AdditionalNotes != "" {
		a.printf("Notes: %s\n", e.AdditionalNotes)
	}
	if u := d.Assignment; u != nil {
		a.printf("Prescribed: %d sets x %d reps", u.Sets, u.Reps)
		if u.Hold > 0 {
			a.printf(", hold %ds", u.Hold)
		}
		a.println()
	}
	return nil
}

// Complete records a session for an assignment and walks through the
// follow-up prompt the server asks for.
// Usage: complete <assignment>
func (a *App) Complete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: complete <assignment>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(services.ErrInvalidExerciseID, "")
	}

	reps, err := GetInt(a.reader, "Reps completed", a.out, 1, 1000)
	if err != nil {
		return a.fail(services.ErrIncompleteForm, "")
	}
	sets, err := GetInt(a.reader, "Sets completed", a.out, 1, 100)
	if err != nil {
		return a.fail(services.ErrIncompleteForm, "")
	}
	pain, err := GetInt(a.reader, "Pain level", a.out, 0, services.MaxPainLevel)
	if err != nil {
		return a.fail(services.ErrIncompleteForm, "")
	}

	outcome, err := runAsync(ctx, func(ctx context.Context) (services.Outcome, error) {
		return a.exercises.Complete(ctx, id, reps, sets, pain)
	})
	if err != nil {
		return a.fail(err, services.MsgCompletionFailed)
	}

	a.println(outcome.Message())
	if !outcome.IsPrompt() {
		return nil
	}
	return a.answerPrompt(ctx, id, outcome)
}

func (a *App) answerPrompt(ctx context.Context, id int64, outcome services.Outcome) error {
	yes, err := GetYesNo(a.reader, "Your answer", a.out)
	if err != nil {
		return err
	}

	var (
		call     func(ctx context.Context) error
		okMsg    string
		fallback string
	)
	switch outcome {
	case services.OutcomeIncreasePrompt:
		if !yes {
			return nil
		}
		call, okMsg, fallback = func(ctx context.Context) error { return a.exercises.ConfirmIncrease(ctx, id) },
			services.MsgIncreased, services.MsgIncreaseFailed
	case services.OutcomeDecreasePrompt:
		if !yes {
			return nil
		}
		call, okMsg, fallback = func(ctx context.Context) error { return a.exercises.ConfirmDecrease(ctx, id) },
			services.MsgDecreased, services.MsgDecreaseFailed
	case services.OutcomeRemovePrompt:
		okMsg = services.MsgKept
		if yes {
			okMsg = services.MsgRemovedHighPain
		}
		call, fallback = func(ctx context.Context) error { return a.exercises.ConfirmRemoval(ctx, id, yes) },
			services.MsgRemovalFailed
	default:
		return errors.New("no prompt for outcome")
	}

	if _, err := runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}); err != nil {
		return a.fail(err, fallback)
	}
	a.println(okMsg)
	return nil
}

// Remove takes an exercise out of the routine after confirmation.
// Usage: remove <assignment>
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: remove <assignment>")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(services.ErrInvalidExerciseID, "")
	}

	yes, err := GetYesNo(a.reader, "Remove this exercise from your routine?", a.out)
	if err != nil || !yes {
		return err
	}

	if _, err := runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.exercises.Remove(ctx, id)
	}); err != nil {
		return a.fail(err, services.MsgRemovalFailed)
	}
	a.println(services.MsgRemoved)
	return nil
}

// Reactivate puts a removed exercise back on the dashboard.
// Usage: reactivate <assignment> [exercise]
func (a *App) Reactivate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: reactivate <assignment> [exercise]")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(services.ErrInvalidExerciseID, "")
	}
	var exerciseID int64
	if len(args) > 1 {
		if exerciseID, err = parseID(args[1]); err != nil {
			return a.fail(services.ErrInvalidExerciseID, "")
		}
	}

	if _, err := runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.reactivate.Reactivate(ctx, id, exerciseID)
	}); err != nil {
		return a.report(err, services.ReactivateAlert(err))
	}
	a.println(services.MsgReactivated)
	return nil
}
