package cli

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
)

func (a *App) History(ctx context.Context) error {
	items, err := runAsync(ctx, a.history.Load)
	if err != nil {
		return a.fail(err, services.MsgHistoryFailed)
	}
	if len(items) == 0 {
		a.println("No exercise history yet")
		return nil
	}

	for _, it := range items {
		title := it.FormattedDate
		if title == "" {
			title = it.Date
		}
		a.printf("%s  pain %d/10\n", title, it.PainLevel)
		for _, e := range it.Exercises {
			a.printf("    %s  %d x %d\n", e.Name, e.Sets, e.Reps)
		}
	}
	return nil
}
