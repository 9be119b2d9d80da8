package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
)

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if snap.User == nil {
		return fmt.Sprintf("(%s)", snap.State)
	}
	return fmt.Sprintf("(%s %s)", snap.User.Email, snap.State)
}

// Root restores the previous session if the stored token is still valid and
// then runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to GastroHealth (type 'help' for commands)")

	if err := a.session.Bootstrap(ctx); err != nil {
		report(err)
	}

	switch a.state() {
	case session.StateUnauthenticated:
		printlnFn("Please 'login' or 'register'.")
	default:
		if u := a.session.Snapshot().User; u != nil {
			printlnFn(fmt.Sprintf("Signed in as %s.", u.Email))
		}
		a.advance(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
