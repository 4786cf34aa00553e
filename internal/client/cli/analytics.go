package cli

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
)

type weekStats struct {
	adherence *api.AdherenceStats
	pain      *api.PainStats
}

// Analytics shows adherence and pain for the selected week.
// Usage: analytics [prev|next|current]
func (a *App) Analytics(ctx context.Context, args []string) error {
	now := a.now()
	if len(args) > 0 {
		switch args[0] {
		case "prev", "previous":
			a.week = a.week.Previous()
		case "next":
			a.week = a.week.Next(now)
		case "current":
			a.week = services.CurrentWeek(now)
		default:
			a.println("Usage: analytics [prev|next|current]")
			return nil
		}
	}
	week := a.week

	stats, err := runAsync(ctx, func(ctx context.Context) (weekStats, error) {
		var s weekStats
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			s.adherence, err = a.analytics.Adherence(ctx, week)
			return err
		})
		g.Go(func() (err error) {
			s.pain, err = a.analytics.Pain(ctx, week)
			return err
		})
		return s, g.Wait()
	})
	if err != nil {
		return a.fail(err, services.MsgAdherenceFailed)
	}

	a.printf("== %s ==\n", week.Title(now))
	a.printf("Average adherence: %.0f%%\n", stats.adherence.AverageAdherence)
	printChart(a, stats.adherence.ChartData, "%")
	a.printf("Average pain: %.1f/10\n", stats.pain.AveragePain)
	printChart(a, stats.pain.ChartData, "")
	return nil
}

func printChart(a *App, c api.ChartData, unit string) {
	if len(c.Datasets) == 0 {
		return
	}
	data := c.Datasets[0].Data
	for i, label := range c.Labels {
		if i >= len(data) {
			break
		}
		bar := strings.Repeat("#", barWidth(data[i], unit))
		a.printf("  %-4s %-20s %.0f%s\n", label, bar, data[i], unit)
	}
}

func barWidth(v float64, unit string) int {
	scale := 2.0
	if unit == "%" {
		scale = 0.2
	}
	w := int(v * scale)
	if w < 0 {
		return 0
	}
	if w > 20 {
		return 20
	}
	return w
}
