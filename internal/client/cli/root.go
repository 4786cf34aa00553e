package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	switch {
	case !a.isLoggedIn():
		return "(logged out)"
	case a.currentUserName() != "":
		return fmt.Sprintf("(%s)", a.currentUserName())
	default:
		return ""
	}
}

// Root restores the stored session, asks for credentials when there is
// none, and runs the REPL until exit.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to physiokeeper CLI (type 'help' for commands)")

	if a.mgr.Hydrate(ctx) {
		a.log.Info(ctx, "restored stored session")
	} else {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(lineSource{a.reader}))
}
