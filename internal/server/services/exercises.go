package services

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

// Pain thresholds on the 0-10 scale.
const (
	painDecrease = 4 // at or above: step the exercise down
	painRemove   = 7 // at or above on a beginner exercise: offer removal
	lowPainRuns  = 3 // completions below painDecrease needed to step up
	maxPain      = 10
)

var levels = []string{models.Beginner, models.Intermediate, models.Advanced}

const (
	msgNotActive      = "This exercise is not in your active plan."
	msgAlreadyActive  = "This exercise is already in your active plan."
	msgCategoryActive = "You already have an active exercise from this category. Remove it before adding this one."
	msgHardest        = "This exercise is already at the highest difficulty."
	msgEasiest        = "This exercise is already at the lowest difficulty."
)

// ExerciseService manages the user's exercise plan: completion reports,
// difficulty changes, removal and reactivation.
type ExerciseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewExerciseService(db *sql.DB, m repomanager.RepositoryManager) *ExerciseService {
	return &ExerciseService{db: db, repomanager: m, now: time.Now}
}

// List returns the user's active or inactive assignments.
func (s *ExerciseService) List(ctx context.Context, userID int64, active bool) ([]models.AssignedExercise, error) {
	return s.repomanager.UserExercises(s.db).List(ctx, userID, active)
}

// All returns every assignment of the user, active and inactive, by id.
func (s *ExerciseService) All(ctx context.Context, userID int64) ([]models.AssignedExercise, error) {
	repo := s.repomanager.UserExercises(s.db)
	active, err := repo.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	inactive, err := repo.List(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	out := append(active, inactive...)
	slices.SortFunc(out, func(a, b models.AssignedExercise) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *ExerciseService) Get(ctx context.Context, userID, id int64) (*models.AssignedExercise, error) {
	return s.repomanager.UserExercises(s.db).Get(ctx, userID, id)
}

func (s *ExerciseService) Exercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return s.repomanager.Catalogue(s.db).GetExercise(ctx, id)
}

func (s *ExerciseService) InjuryTypes(ctx context.Context) ([]models.InjuryType, error) {
	return s.repomanager.Catalogue(s.db).ListInjuryTypes(ctx)
}

// Complete stores the reported sets, reps and pain. When u.Completed is set
// the completion is added to today's report and the result says which
// follow-up the client should offer.
func (s *ExerciseService) Complete(ctx context.Context, userID, id int64, u api.CompletionUpdate) (*api.CompletionResult, error) {
	verr := &ValidationError{}
	if u.Sets < 1 {
		verr.add("sets", "Ensure this value is greater than or equal to 1.")
	}
	if u.Reps < 1 {
		verr.add("reps", "Ensure this value is greater than or equal to 1.")
	}
	if u.PainLevel < 0 || u.PainLevel > maxPain {
		verr.add("pain_level", "Pain level must be between 0 and 10.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	result := &api.CompletionResult{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		a, err := s.repomanager.UserExercises(tx).Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return invalid(msgNotActive)
		}

		ue := a.UserExercise
		ue.Sets, ue.Reps, ue.PainLevel = u.Sets, u.Reps, u.PainLevel
		ue.Completed = ue.Completed || u.Completed
		if err := s.repomanager.UserExercises(tx).Update(ctx, &ue); err != nil {
			return err
		}
		if !u.Completed {
			return nil
		}

		reports := s.repomanager.Reports(tx)
		reportID, err := reports.EnsureDaily(ctx, userID, timex.FormatDate(s.now().UTC()))
		if err != nil {
			return err
		}
		if err := reports.AddExercise(ctx, &models.ReportExercise{
			ReportID:       reportID,
			UserExerciseID: ue.ID,
			Sets:           u.Sets,
			Reps:           u.Reps,
			PainLevel:      u.PainLevel,
			CreatedAt:      s.now().UTC(),
		}); err != nil {
			return err
		}

		level := a.Exercise.DifficultyLevel
		switch {
		case u.PainLevel >= painRemove && level == models.Beginner:
			result.ShouldRemove = true
		case u.PainLevel >= painDecrease && level != models.Beginner:
			result.ShouldDecrease = true
		case u.PainLevel < painDecrease && level != models.Advanced:
			recent, err := reports.RecentPain(ctx, ue.ID, lowPainRuns)
			if err != nil {
				return err
			}
			result.ShouldIncrease = consistentlyLow(recent)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmIncrease swaps the assignment for the next harder exercise of the
// same category. A "no" leaves the plan unchanged.
func (s *ExerciseService) ConfirmIncrease(ctx context.Context, userID, id int64, yes bool) error {
	if !yes {
		return nil
	}
	return s.shift(ctx, userID, id, +1)
}

// ConfirmDecrease swaps the assignment for the next easier exercise.
func (s *ExerciseService) ConfirmDecrease(ctx context.Context, userID, id int64, yes bool) error {
	if !yes {
		return nil
	}
	return s.shift(ctx, userID, id, -1)
}

// ConfirmRemoval deactivates the assignment when yes is set.
func (s *ExerciseService) ConfirmRemoval(ctx context.Context, userID, id int64, yes bool) error {
	if !yes {
		_, err := s.Get(ctx, userID, id)
		return err
	}
	return s.Remove(ctx, userID, id)
}

// Remove moves the assignment to the inactive list.
func (s *ExerciseService) Remove(ctx context.Context, userID, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserExercises(tx)
		a, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return invalid(msgNotActive)
		}
		ue := a.UserExercise
		ue.IsActive = false
		return repo.Update(ctx, &ue)
	})
}

// Reactivate returns an inactive assignment to the plan. It is refused while
// another exercise of the same category is active.
func (s *ExerciseService) Reactivate(ctx context.Context, userID, id, exerciseID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserExercises(tx)
		a, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if exerciseID != 0 && exerciseID != a.ExerciseID {
			return &ValidationError{Fields: map[string][]string{"exercise_id": {"Does not match this assignment."}}}
		}
		if a.IsActive {
			return invalid(msgAlreadyActive)
		}

		n, err := repo.CountActiveInCategory(ctx, userID, a.Exercise.CategoryID, a.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return invalid(msgCategoryActive)
		}

		ue := a.UserExercise
		ue.IsActive, ue.Completed, ue.PainLevel = true, false, 0
		return repo.Update(ctx, &ue)
	})
}

// shift replaces the assignment with the exercise step levels away in the
// same category, reusing an earlier assignment of that exercise if any.
func (s *ExerciseService) shift(ctx context.Context, userID, id int64, step int) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserExercises(tx)
		a, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return invalid(msgNotActive)
		}

		next := levelIndex(a.Exercise.DifficultyLevel) + step
		if next < 0 {
			return invalid(msgEasiest)
		}
		if next >= len(levels) {
			return invalid(msgHardest)
		}

		target, err := s.repomanager.Catalogue(tx).FindByCategory(ctx, a.Exercise.CategoryID, levels[next])
		if errors.Is(err, common.ErrNotFound) {
			if step > 0 {
				return invalid(msgHardest)
			}
			return invalid(msgEasiest)
		}
		if err != nil {
			return err
		}

		current := a.UserExercise
		current.IsActive = false
		if err := repo.Update(ctx, &current); err != nil {
			return err
		}

		existing, err := repo.FindByExercise(ctx, userID, target.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			_, err = repo.Create(ctx, &models.UserExercise{
				UserID:     userID,
				ExerciseID: target.ID,
				Sets:       current.Sets,
				Reps:       current.Reps,
				Hold:       current.Hold,
				IsActive:   true,
			})
			return err
		case err != nil:
			return err
		}

		existing.Sets, existing.Reps, existing.Hold = current.Sets, current.Reps, current.Hold
		existing.IsActive, existing.Completed, existing.PainLevel = true, false, 0
		return repo.Update(ctx, existing)
	})
}

func levelIndex(level string) int {
	for i, l := range levels {
		if l == level {
			return i
		}
	}
	return 0
}

func consistentlyLow(recent []int) bool {
	if len(recent) < lowPainRuns {
		return false
	}
	for _, p := range recent {
		if p >= painDecrease {
			return false
		}
	}
	return true
}
