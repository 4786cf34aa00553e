package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	helpLoggedOut = "Available commands: register, login, status, exit"
	helpLoggedIn  = "Available commands: (d)ashboard, exercise <id> [assignment], complete <assignment>, " +
		"remove <assignment>, reactivate <assignment> [exercise], history, analytics [prev|next|current], " +
		"profile, editprofile, password, chat <message>, resetchat, status, logout, exit"

	msgLoginFirst = "Please login first."
	msgLoginAgain = "Your session has ended. Please login again."
)

// sessionCommands need a logged-in session.
var sessionCommands = map[string]bool{
	"d": true, "dashboard": true, "exercise": true, "complete": true, "remove": true,
	"reactivate": true, "history": true, "analytics": true, "profile": true,
	"editprofile": true, "password": true, "chat": true, "resetchat": true,
}

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	drainAlerts()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Exercise(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Reactivate(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Analytics(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Password(ctx context.Context) error
	Chat(ctx context.Context, args []string) error
	ResetChat(ctx context.Context) error
}

// runREPL starts the read-eval-print loop of the CLI.
//
// It reads a line from scanner, parses the first token as the command and
// dispatches to a. The loop exits on EOF or on "exit" / "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own alerts. Queued session alerts are printed before each prompt.
// Session commands are refused while logged out, and a command that ends
// the session is followed by a login prompt.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.drainAlerts()
		printlnFn(fmt.Sprintf("pk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if sessionCommands[cmd] && !a.isLoggedIn() {
			printlnFn(msgLoginFirst)
			printlnFn(helpLoggedOut)
			continue
		}
		wasLoggedIn := a.isLoggedIn()

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "d", "dashboard":
			_ = a.Dashboard(ctx)

		case "exercise":
			_ = a.Exercise(ctx, args)

		case "complete":
			_ = a.Complete(ctx, args)

		case "remove":
			_ = a.Remove(ctx, args)

		case "reactivate":
			_ = a.Reactivate(ctx, args)

		case "history":
			_ = a.History(ctx)

		case "analytics":
			_ = a.Analytics(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "password":
			_ = a.Password(ctx)

		case "chat":
			_ = a.Chat(ctx, args)

		case "resetchat":
			_ = a.ResetChat(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if wasLoggedIn && !a.isLoggedIn() && cmd != "logout" {
			a.drainAlerts()
			printlnFn(msgLoginAgain)
			_ = a.Login(ctx)
		}
	}
}
