package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const MsgDashboardFailed = "Failed to load your exercises. Please check your connection and try again."

// Dashboard holds the three exercise lists of the home screen.
type Dashboard struct {
	Assigned []api.UserExercise
	Active   []api.DashboardExercise
	Inactive []api.DashboardExercise
}

type DashboardService interface {
	Load(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	caller session.Caller
}

func NewDashboardService(caller session.Caller) DashboardService {
	return &dashboardService{caller: caller}
}

// Load fetches the three lists in parallel. A 401 on any of them retries
// the whole set once.
func (s *dashboardService) Load(ctx context.Context) (*Dashboard, error) {
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*Dashboard, error) {
		var d Dashboard
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Assigned, err = c.ListUserExercises(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Active, err = c.ActiveExercises(ctx)
			return err
		})
		g.Go(func() (err error) {
			d.Inactive, err = c.InactiveExercises(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &d, nil
	})
}
