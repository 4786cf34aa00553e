package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const (
	MsgAdherenceFailed = "Failed to load your exercises. Please check your connection and try again."
	MsgPainFailed      = "Failed to load your pain data. Please check your connection and try again."
)

// Week is a seven-day analytics window ending at End (inclusive).
type Week struct {
	End time.Time
}

// CurrentWeek ends today.
func CurrentWeek(now time.Time) Week {
	return Week{End: now}
}

// Start is the first day of the window.
func (w Week) Start() time.Time {
	return w.End.AddDate(0, 0, -6)
}

// Previous moves the window back seven days.
func (w Week) Previous() Week {
	return Week{End: w.End.AddDate(0, 0, -7)}
}

// Next moves the window forward seven days but never past now.
func (w Week) Next(now time.Time) Week {
	end := w.End.AddDate(0, 0, 7)
	if end.After(now) {
		end = now
	}
	return Week{End: end}
}

// Title renders "Current Week", "Jan 2 - 8" or "Jan 29 - Feb 4".
func (w Week) Title(now time.Time) string {
	if sameDay(w.End, now) {
		return "Current Week"
	}
	start := w.Start()
	startMonth, endMonth := start.Format("Jan"), w.End.Format("Jan")
	if startMonth == endMonth {
		return fmt.Sprintf("%s %d - %d", startMonth, start.Day(), w.End.Day())
	}
	return fmt.Sprintf("%s %d - %s %d", startMonth, start.Day(), endMonth, w.End.Day())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type AnalyticsService interface {
	Adherence(ctx context.Context, w Week) (*api.AdherenceStats, error)
	Pain(ctx context.Context, w Week) (*api.PainStats, error)
}

type analyticsService struct {
	caller session.Caller
}

func NewAnalyticsService(caller session.Caller) AnalyticsService {
	return &analyticsService{caller: caller}
}

func (s *analyticsService) Adherence(ctx context.Context, w Week) (*api.AdherenceStats, error) {
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.AdherenceStats, error) {
		return c.AdherenceStats(ctx, w.End)
	})
}

func (s *analyticsService) Pain(ctx context.Context, w Week) (*api.PainStats, error) {
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.PainStats, error) {
		return c.PainStats(ctx, w.End)
	})
}
