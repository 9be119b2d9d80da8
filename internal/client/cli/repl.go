package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gastrohealth/internal/client/client"
	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	state() session.State
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Survey(ctx context.Context) error
	APIKey(ctx context.Context) error
	Menu()
	Open(ctx context.Context, view string) error
	Show(ctx context.Context) error
	LogSymptom(ctx context.Context) error
	AddReminder(ctx context.Context) error
	RemoveReminder(ctx context.Context, id string) error
}

var helpByState = map[session.State]string{
	session.StateLoading:         "Available commands: exit",
	session.StateUnauthenticated: "Available commands: register, login, exit",
	session.StateOnboarding:      "Available commands: survey, logout, exit",
	session.StateAPIKeyRequired:  "Available commands: apikey, survey, logout, exit",
	session.StateActive: "Available commands: menu, show, mealplan, food, symptoms, log, report, recipes, " +
		"reminders, remind, unremind <id>, survey, apikey, logout, exit",
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Handler errors are printed and never end the loop; it exits on EOF or on
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gastro %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpByState[a.state()])
		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "survey", "profile":
			report(a.Survey(ctx))
		case "apikey":
			report(a.APIKey(ctx))
		case "menu":
			a.Menu()
		case "show":
			report(a.Show(ctx))
		case "mealplan", "food", "symptoms", "report", "recipes", "reminders":
			report(a.Open(ctx, cmd))
		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <view>")
				continue
			}
			report(a.Open(ctx, args[0]))
		case "log":
			report(a.LogSymptom(ctx))
		case "remind":
			report(a.AddReminder(ctx))
		case "unremind":
			if len(args) == 0 {
				printlnFn("Usage: unremind <id>")
				continue
			}
			report(a.RemoveReminder(ctx, args[0]))
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// report prints a handler error in user terms. Forced logouts announce
// themselves through the session event, so they are not repeated here.
func report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, client.ErrUnauthorized):
	case errors.Is(err, session.ErrInvalidTransition):
		printlnFn("Not available right now, type 'help' for commands.")
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later.")
	default:
		printlnFn("Error:", err)
	}
}
